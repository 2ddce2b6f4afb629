package models

// BlogPost represents a blog article
type BlogPost struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Content       string   `json:"content,omitempty"`
	CategoryID    int      `json:"category_id,omitempty"`
	CategoryName  string   `json:"category_name,omitempty"`
	AuthorName    string   `json:"author_name,omitempty"`
	Status        string   `json:"status,omitempty"` // draft, published
	FeaturedImage string   `json:"featured_image,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Views         int      `json:"views,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	PublishedAt   string   `json:"published_at,omitempty"`
}

// BlogCategory represents a blog category
type BlogCategory struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count,omitempty"`
}

// BlogComment represents a reader comment on a post
type BlogComment struct {
	ID        int    `json:"id"`
	PostID    int    `json:"post_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// BlogDraft is the editor form state persisted while a post is being written
type BlogDraft struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	CategoryID    int    `json:"category_id"`
	Status        string `json:"status"`
	FeaturedImage string `json:"featured_image"`
	Tags          string `json:"tags"`
}

// BlogStats represents the admin blog counters
type BlogStats struct {
	TotalPosts     int `json:"total_posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	TotalComments  int `json:"total_comments"`
}
