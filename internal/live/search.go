package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/taskwire/taskwire/internal/domain"
)

// SearchHit is one live search result row.
type SearchHit struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// SearchResultsMsg delivers the results for the query they were computed
// against. A result set for a superseded query is dropped by the caller.
type SearchResultsMsg struct {
	Query string
	Hits  []SearchHit
}

// SearchDisconnectMsg reports a dropped search connection.
type SearchDisconnectMsg struct {
	Err error
}

// searchResult is the wire shape of one push on the search channel.
type searchResult struct {
	Query string      `json:"query"`
	Items []SearchHit `json:"items"`
}

// SearchChannel is a per-user connection streaming task-search results for
// the most recently sent query.
type SearchChannel struct {
	conn   *websocket.Conn
	logger *slog.Logger
}

// DialSearch opens the live search channel.
func DialSearch(ctx context.Context, baseURL string, logger *slog.Logger) (*SearchChannel, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &domain.LiveError{Op: "dial search", Err: err}
	}
	u.Path = "/live/search"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, &domain.LiveError{Op: "dial search", Err: err}
	}
	logger.Debug("search channel open")
	return &SearchChannel{conn: conn, logger: logger}, nil
}

// Query sends a new search string. The server answers on the read side.
func (s *SearchChannel) Query(q string) error {
	if err := s.conn.WriteJSON(map[string]string{"query": q}); err != nil {
		return &domain.LiveError{Op: "search query", Err: err}
	}
	return nil
}

// Listen blocks on the next result set.
func (s *SearchChannel) Listen() tea.Cmd {
	return func() tea.Msg {
		for {
			_, data, err := s.conn.ReadMessage()
			if err != nil {
				return SearchDisconnectMsg{Err: err}
			}
			var res searchResult
			if err := json.Unmarshal(data, &res); err != nil {
				s.logger.Warn("skipping malformed search payload", "error", err)
				continue
			}
			return SearchResultsMsg{Query: res.Query, Hits: res.Items}
		}
	}
}

// Close tears the connection down.
func (s *SearchChannel) Close() error {
	return s.conn.Close()
}
