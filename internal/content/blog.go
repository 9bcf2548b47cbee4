// Package content serves the static marketing content shipped with the
// service: an ordered, read-only collection of blog posts.
package content

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/embodywellness/member-api/internal/models"
)

//go:embed posts.json
var contentFS embed.FS

// Library is the loaded blog post collection. Posts keep the order of
// the source file; lookups are by post ID.
type Library struct {
	posts []models.BlogPost
	byID  map[string]*models.BlogPost
}

// NewLibrary loads the embedded post collection
func NewLibrary() (*Library, error) {
	raw, err := contentFS.ReadFile("posts.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded posts: %w", err)
	}
	return loadLibrary(raw)
}

func loadLibrary(raw []byte) (*Library, error) {
	var posts []models.BlogPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse posts: %w", err)
	}

	lib := &Library{
		posts: posts,
		byID:  make(map[string]*models.BlogPost, len(posts)),
	}
	for i := range lib.posts {
		post := &lib.posts[i]
		if post.ID == "" {
			return nil, fmt.Errorf("post %d is missing an id", i)
		}
		if _, dup := lib.byID[post.ID]; dup {
			return nil, fmt.Errorf("duplicate post id %q", post.ID)
		}
		lib.byID[post.ID] = post
	}

	return lib, nil
}

// Posts returns all posts in source order
func (l *Library) Posts() []models.BlogPost {
	return l.posts
}

// Post returns the post with the given ID
func (l *Library) Post(id string) (*models.BlogPost, bool) {
	post, ok := l.byID[id]
	return post, ok
}
