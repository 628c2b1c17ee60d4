package models

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

type Post struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Platform    string     `json:"platform"`
	MediaURL    string     `json:"media_url,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      string     `json:"status"` // draft, scheduled, running, published, failed
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusRunning   = "running"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

const (
	PlatformLinkedIn = "linkedin"
	PlatformTwitter  = "twitter"
)

const (
	MediaKindNone     = ""
	MediaKindImage    = "image"
	MediaKindVideo    = "video"
	MediaKindAudio    = "audio"
	MediaKindDocument = "document"
	MediaKindFile     = "file"
)

var ErrMissingSchedule = errors.New("post is past draft but has no scheduled time")

// Validate checks that any post at or beyond "scheduled" carries a scheduled time.
func (p *Post) Validate() error {
	if p.ID == "" {
		return errors.New("post id is empty")
	}
	switch p.Status {
	case PostStatusDraft:
		return nil
	case PostStatusScheduled, PostStatusRunning, PostStatusPublished, PostStatusFailed:
		if p.ScheduledAt == nil {
			return fmt.Errorf("post %s (%s): %w", p.ID, p.Status, ErrMissingSchedule)
		}
		return nil
	default:
		return fmt.Errorf("post %s has unknown status %q", p.ID, p.Status)
	}
}

// MediaKind classifies the media reference by its extension.
func (p *Post) MediaKind() string {
	if p.MediaURL == "" {
		return MediaKindNone
	}
	ref := p.MediaURL
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(ref)), ".")
	if ext == "" {
		return MediaKindFile
	}

	switch ext {
	case "pdf", "doc", "docx", "txt":
		return MediaKindDocument
	}

	kind := filetype.GetType(ext)
	if kind == types.Unknown {
		return MediaKindFile
	}
	switch kind.MIME.Type {
	case "image":
		return MediaKindImage
	case "video":
		return MediaKindVideo
	case "audio":
		return MediaKindAudio
	}
	return MediaKindFile
}
