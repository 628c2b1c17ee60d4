package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidate(t *testing.T) {
	at := time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		post    Post
		wantErr error
		fails   bool
	}{
		{name: "draft without time", post: Post{ID: "1", Status: PostStatusDraft}},
		{name: "scheduled with time", post: Post{ID: "2", Status: PostStatusScheduled, ScheduledAt: &at}},
		{name: "published without time", post: Post{ID: "3", Status: PostStatusPublished}, wantErr: ErrMissingSchedule, fails: true},
		{name: "unknown status", post: Post{ID: "4", Status: "archived"}, fails: true},
		{name: "missing id", post: Post{Status: PostStatusDraft}, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if !tt.fails {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPostMediaKind(t *testing.T) {
	cases := map[string]string{
		"":                                MediaKindNone,
		"/uploads/posts/a.png":            MediaKindImage,
		"https://cdn.example.com/b.JPG?x": MediaKindImage,
		"/uploads/posts/c.mp4":            MediaKindVideo,
		"/uploads/posts/d.mp3":            MediaKindAudio,
		"/uploads/posts/e.pdf":            MediaKindDocument,
		"/uploads/posts/f.docx":           MediaKindDocument,
		"/uploads/posts/noext":            MediaKindFile,
		"/uploads/posts/g.unknownext":     MediaKindFile,
	}
	for ref, want := range cases {
		p := Post{MediaURL: ref}
		assert.Equal(t, want, p.MediaKind(), ref)
	}
}
