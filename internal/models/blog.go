package models

// ContentBlockType is the kind of a blog post content block
type ContentBlockType string

// Supported content block types
const (
	BlockHeading ContentBlockType = "heading"
	BlockText    ContentBlockType = "text"
	BlockImage   ContentBlockType = "image"
	BlockVideo   ContentBlockType = "video"
)

// ContentBlock is one typed block in a blog post body. Text carries the
// copy for heading/text blocks; URL and Caption apply to image and video
// blocks.
type ContentBlock struct {
	Type    ContentBlockType `json:"type"`
	Text    string           `json:"text,omitempty"`
	URL     string           `json:"url,omitempty"`
	Caption string           `json:"caption,omitempty"`
}

// BlogPost is a static marketing article. Posts are read-only content
// shipped with the service; nothing here mutates them.
type BlogPost struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Date    string         `json:"date"`
	Author  string         `json:"author"`
	Tags    []string       `json:"tags,omitempty"`
	Image   string         `json:"image,omitempty"`
	Excerpt string         `json:"excerpt,omitempty"`
	Content []ContentBlock `json:"content"`
}
