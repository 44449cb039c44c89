package wp

type tokenResponse struct {
	Token string `json:"token"`
}

// Tag is a CMS taxonomy term.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Media is an uploaded CMS attachment.
type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// Post is a created CMS post.
type Post struct {
	ID int64 `json:"id"`
}

// PostInput is the payload for creating a post.
type PostInput struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Status     string  `json:"status"`
	Slug       string  `json:"slug,omitempty"`
	Categories []int   `json:"categories,omitempty"`
	Tags       []int64 `json:"tags,omitempty"`
}
