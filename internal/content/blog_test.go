package content

import (
	"testing"

	"github.com/embodywellness/member-api/internal/models"
)

func TestNewLibrary_LoadsEmbeddedPosts(t *testing.T) {
	t.Parallel()

	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary returned error: %v", err)
	}

	posts := lib.Posts()
	if len(posts) == 0 {
		t.Fatal("Expected embedded posts, got none")
	}

	for _, post := range posts {
		if post.ID == "" || post.Title == "" {
			t.Errorf("Post missing id or title: %+v", post)
		}
		for i, block := range post.Content {
			switch block.Type {
			case models.BlockHeading, models.BlockText:
				if block.Text == "" {
					t.Errorf("Post %s block %d: %s block without text", post.ID, i, block.Type)
				}
			case models.BlockImage, models.BlockVideo:
				if block.URL == "" {
					t.Errorf("Post %s block %d: %s block without URL", post.ID, i, block.Type)
				}
			default:
				t.Errorf("Post %s block %d: unknown block type %q", post.ID, i, block.Type)
			}
		}
	}
}

func TestLibrary_LookupByID(t *testing.T) {
	t.Parallel()

	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary returned error: %v", err)
	}

	post, ok := lib.Post("morning-routines-that-stick")
	if !ok {
		t.Fatal("Expected to find morning-routines-that-stick")
	}
	if post.Title == "" {
		t.Error("Expected post to have a title")
	}

	if _, ok := lib.Post("no-such-post"); ok {
		t.Error("Expected lookup miss for unknown id")
	}
}

func TestLoadLibrary_RejectsBadPosts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid JSON", raw: `{`},
		{name: "missing id", raw: `[{"title":"No ID"}]`},
		{name: "duplicate id", raw: `[{"id":"a","title":"A"},{"id":"a","title":"A again"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := loadLibrary([]byte(tt.raw)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
