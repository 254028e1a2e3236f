package api

import (
	"time"

	"github.com/taskwire/taskwire/internal/domain"
)

// Wire shapes. The backend identifies tasks by a plain string id; the
// client's tagged TaskID exists only locally, so decoding converts.

type taskDTO struct {
	ID              string              `json:"id"`
	Code            string              `json:"code"`
	Name            string              `json:"name"`
	Project         *string             `json:"project"`
	Section         *string             `json:"section"`
	Assignees       []domain.User       `json:"assignees"`
	Assignee        *domain.User        `json:"assignee"`
	Creator         domain.User         `json:"creator"`
	Priority        domain.Priority     `json:"priority"`
	Status          domain.Status       `json:"status"`
	DueDate         *time.Time          `json:"due_date"`
	Description     string              `json:"description"`
	CommentCount    int                 `json:"comment_count"`
	AttachmentCount int                 `json:"attachment_count"`
	SubtaskCount    int                 `json:"subtask_count"`
	LikedBy         []domain.User       `json:"liked_by"`
	SeenBy          []domain.User       `json:"seen_by"`
	Mentions        []string            `json:"mentions"`
	TimeTracked     domain.TimeTracked  `json:"time_tracked"`
	Parent          string              `json:"parent"`
	Ancestors       []domain.Crumb      `json:"ancestors"`
	Completed       bool                `json:"completed"`
	NeedsRepeat     bool                `json:"needs_repeat"`
	Recurring       bool                `json:"recurring"`
	Imported        bool                `json:"imported"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (d taskDTO) toDomain() domain.Task {
	t := domain.Task{
		ID:              domain.ConfirmedID(d.ID),
		Code:            d.Code,
		Name:            d.Name,
		Project:         d.Project,
		Section:         d.Section,
		Assignees:       d.Assignees,
		Assignee:        d.Assignee,
		Creator:         d.Creator,
		Priority:        d.Priority,
		Status:          d.Status,
		DueDate:         d.DueDate,
		Description:     d.Description,
		CommentCount:    d.CommentCount,
		AttachmentCount: d.AttachmentCount,
		SubtaskCount:    d.SubtaskCount,
		LikedBy:         d.LikedBy,
		SeenBy:          d.SeenBy,
		Mentions:        d.Mentions,
		TimeTracked:     d.TimeTracked,
		Ancestors:       d.Ancestors,
		Completed:       d.Completed,
		NeedsRepeat:     d.NeedsRepeat,
		Recurring:       d.Recurring,
		Imported:        d.Imported,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Parent != "" {
		parent := domain.ConfirmedID(d.Parent)
		t.Parent = &parent
	}
	return t
}

func toDomainTasks(dtos []taskDTO) []domain.Task {
	tasks := make([]domain.Task, len(dtos))
	for i, d := range dtos {
		tasks[i] = d.toDomain()
	}
	return tasks
}

type taskPageDTO struct {
	Items []taskDTO `json:"items"`
	Total int       `json:"total"`
}
