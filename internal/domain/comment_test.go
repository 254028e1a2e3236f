package domain

import "testing"

func TestReferencedURLs(t *testing.T) {
	content := `See https://cdn.example.com/a.png and also
(https://cdn.example.com/b.pdf) but not ftp://old.example.com`

	refs := ReferencedURLs(content)

	if !refs["https://cdn.example.com/a.png"] {
		t.Error("missing bare url")
	}
	if !refs["https://cdn.example.com/b.pdf"] {
		t.Error("missing parenthesized url")
	}
	if len(refs) != 2 {
		t.Errorf("got %d refs, want 2", len(refs))
	}
}

func TestPruneCandidates(t *testing.T) {
	attachments := []Attachment{
		{ID: "at-1", URL: "https://cdn.example.com/keep.png", Folder: FolderDescription},
		{ID: "at-2", URL: "https://cdn.example.com/stale.png", Folder: FolderDescription},
		{ID: "at-3", URL: "https://cdn.example.com/other.png", Folder: FolderComments},
	}
	content := "intro https://cdn.example.com/keep.png outro"

	stale := PruneCandidates(content, attachments, FolderDescription)

	if len(stale) != 1 {
		t.Fatalf("got %d candidates, want 1", len(stale))
	}
	if stale[0].ID != "at-2" {
		t.Errorf("pruned %s, want at-2", stale[0].ID)
	}
}

func TestPruneCandidates_ScopedByFolder(t *testing.T) {
	attachments := []Attachment{
		{ID: "at-1", URL: "https://cdn.example.com/comment.png", Folder: FolderComments},
	}

	// A description save must never touch comment attachments.
	stale := PruneCandidates("no refs here", attachments, FolderDescription)
	if len(stale) != 0 {
		t.Errorf("got %d candidates, want 0", len(stale))
	}
}

func TestAttachmentType_Media(t *testing.T) {
	tests := []struct {
		typ  AttachmentType
		want bool
	}{
		{AttachmentImage, true},
		{AttachmentVideo, true},
		{AttachmentDocument, false},
		{AttachmentPDF, false},
	}
	for _, tt := range tests {
		if got := tt.typ.Media(); got != tt.want {
			t.Errorf("%s.Media() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
