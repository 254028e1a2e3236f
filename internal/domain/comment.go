package domain

import (
	"regexp"
	"time"
)

// MaxCommentDepth bounds comment threading.
const MaxCommentDepth = 3

// Comment is attached to exactly one task.
type Comment struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Edited    bool      `json:"edited"`
	ParentID  string    `json:"parent_id,omitempty"`
	Depth     int       `json:"depth"`
	SeenBy    []User    `json:"seen_by,omitempty"`

	// Pending marks a comment appended locally before server confirmation.
	// It never travels over the wire.
	Pending bool `json:"-"`
}

// AttachmentType classifies an attachment for the media/document filter.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentVideo    AttachmentType = "video"
	AttachmentDocument AttachmentType = "document"
	AttachmentPDF      AttachmentType = "pdf"
)

// Media reports whether the attachment is an image or video.
func (t AttachmentType) Media() bool {
	return t == AttachmentImage || t == AttachmentVideo
}

// Folder is the context an attachment was uploaded from. Pruning is scoped
// by folder so a description save never deletes comment media.
type Folder string

const (
	FolderDescription Folder = "description"
	FolderComments    Folder = "comments"
	FolderGeneric     Folder = "generic"
)

// Attachment is attached to exactly one task.
type Attachment struct {
	ID     string         `json:"id"`
	URL    string         `json:"url"`
	Type   AttachmentType `json:"type"`
	Folder Folder         `json:"folder"`
	Name   string         `json:"name"`
}

var urlPattern = regexp.MustCompile(`https?://[^\s"')>\]]+`)

// ReferencedURLs extracts every URL referenced by a piece of rich content.
func ReferencedURLs(content string) map[string]bool {
	refs := make(map[string]bool)
	for _, u := range urlPattern.FindAllString(content, -1) {
		refs[u] = true
	}
	return refs
}

// PruneCandidates returns the attachments in the given folder whose URL no
// longer appears in the saved content. These are deleted opportunistically
// after a save; attachments from other folders are never touched.
func PruneCandidates(content string, attachments []Attachment, folder Folder) []Attachment {
	refs := ReferencedURLs(content)
	var stale []Attachment
	for _, a := range attachments {
		if a.Folder != folder {
			continue
		}
		if !refs[a.URL] {
			stale = append(stale, a)
		}
	}
	return stale
}
