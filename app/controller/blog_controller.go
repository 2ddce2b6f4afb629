package controller

import (
	"net/http"
	"strconv"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/service"
)

// BlogController handles the public blog
type BlogController struct {
	*Renderer
	blog *service.BlogService
}

// NewBlogController creates a new BlogController
func NewBlogController(renderer *Renderer, blog *service.BlogService) *BlogController {
	return &BlogController{Renderer: renderer, blog: blog}
}

type blogIndexView struct {
	*service.BlogIndex
	Filter models.BlogFilter
}

// blogFilter reads the listing filters; "all" and "" mean no constraint
func blogFilter(r *http.Request) models.BlogFilter {
	q := r.URL.Query()
	filter := models.BlogFilter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     queryPage(r),
	}
	if listsync.Unconstrained(filter.Category) {
		filter.Category = ""
	}
	if listsync.Unconstrained(filter.Status) {
		filter.Status = ""
	}
	return filter
}

// Index handles GET /blog?category=...&search=...&page=N
func (c *BlogController) Index(w http.ResponseWriter, r *http.Request) {
	filter := blogFilter(r)
	filter.Status = "published"
	index, err := c.blog.Index(r.Context(), filter)
	if err != nil {
		c.fail(w, r, "BlogIndex", err)
		return
	}
	c.render(w, r, "blog", "Blog", blogIndexView{BlogIndex: index, Filter: filter})
}

// Post handles GET /blog/{slug}
func (c *BlogController) Post(w http.ResponseWriter, r *http.Request) {
	_, _, r = apiContext(r)
	article, err := c.blog.Article(r.Context(), r.PathValue("slug"))
	if err != nil {
		c.fail(w, r, "BlogPost", err)
		return
	}
	c.render(w, r, "post", article.Post.Title, article)
}

// Comment handles POST /blog/{slug}/comments (post_id, content)
func (c *BlogController) Comment(w http.ResponseWriter, r *http.Request) {
	_, _, r = apiContext(r)
	back := "/blog/" + r.PathValue("slug") + "#comments"
	postID, err := strconv.Atoi(r.FormValue("post_id"))
	if err != nil || postID < 1 {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	err = c.blog.AddComment(r.Context(), postID, r.FormValue("content"))
	c.finish(w, r, "BlogComment", back, err, "Comment posted.", nil)
}
