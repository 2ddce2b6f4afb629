package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/service"
)

// AdminBlogController handles the blog back office and the post editor
type AdminBlogController struct {
	*Renderer
	blog   *service.BlogService
	drafts *service.DraftService
	maxMB  int
}

// NewAdminBlogController creates a new AdminBlogController
func NewAdminBlogController(renderer *Renderer, blog *service.BlogService, drafts *service.DraftService, maxMB int) *AdminBlogController {
	return &AdminBlogController{Renderer: renderer, blog: blog, drafts: drafts, maxMB: maxMB}
}

type adminBlogView struct {
	*service.AdminBlogPage
	Filter models.BlogFilter
}

// Index handles GET /admin/blog?status=...&category=...&search=...&page=N
func (c *AdminBlogController) Index(w http.ResponseWriter, r *http.Request) {
	_, _, r = apiContext(r)
	filter := blogFilter(r)
	page, err := c.blog.AdminIndex(r.Context(), filter)
	if err != nil {
		c.fail(w, r, "AdminBlog", err)
		return
	}
	c.render(w, r, "admin_blog", "Blog posts", adminBlogView{AdminBlogPage: page, Filter: filter})
}

type editorView struct {
	*service.EditorState
	MaxMB int
}

// New handles GET /admin/blog/new
func (c *AdminBlogController) New(w http.ResponseWriter, r *http.Request) {
	c.editor(w, r, 0)
}

// Edit handles GET /admin/blog/{id}/edit
func (c *AdminBlogController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil || id < 1 {
		c.notFound(w, r)
		return
	}
	c.editor(w, r, id)
}

func (c *AdminBlogController) editor(w http.ResponseWriter, r *http.Request, postID int) {
	_, auth, r := apiContext(r)
	state, err := c.blog.Editor(r.Context(), auth.UserID(), postID)
	if err != nil {
		c.fail(w, r, "AdminBlogEditor", err)
		return
	}
	title := "New post"
	if postID > 0 {
		title = "Edit post"
	}
	c.render(w, r, "admin_editor", title, editorView{EditorState: state, MaxMB: c.maxMB})
}

// draftForm reads the editor fields
func draftForm(r *http.Request) (int, models.BlogDraft) {
	postID, _ := strconv.Atoi(r.FormValue("id"))
	categoryID, _ := strconv.Atoi(r.FormValue("category_id"))
	return postID, models.BlogDraft{
		Title:         r.FormValue("title"),
		Slug:          strings.TrimSpace(r.FormValue("slug")),
		Excerpt:       r.FormValue("excerpt"),
		Content:       r.FormValue("content"),
		CategoryID:    categoryID,
		Status:        r.FormValue("status"),
		FeaturedImage: strings.TrimSpace(r.FormValue("featured_image")),
		Tags:          r.FormValue("tags"),
	}
}

func editorPath(postID int) string {
	if postID > 0 {
		return fmt.Sprintf("/admin/blog/%d/edit", postID)
	}
	return "/admin/blog/new"
}

// Autosave handles POST /admin/blog/autosave: the form is kept under the
// post's draft key until it is saved or discarded
func (c *AdminBlogController) Autosave(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	postID, form := draftForm(r)
	err := c.drafts.Autosave(r.Context(), auth.UserID(), postID, form)
	c.finish(w, r, "AdminBlogAutosave", editorPath(postID), err, "Draft saved.", map[string]string{
		"key": service.DraftKey(postID),
	})
}

// Discard handles POST /admin/blog/discard (id)
func (c *AdminBlogController) Discard(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	postID, _ := strconv.Atoi(r.FormValue("id"))
	c.drafts.Discard(r.Context(), auth.UserID(), postID)
	c.finish(w, r, "AdminBlogDiscard", editorPath(postID), nil, "Draft discarded.", nil)
}

// Save handles POST /admin/blog/save. On failure the form is kept as a
// draft so nothing typed is lost.
func (c *AdminBlogController) Save(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	postID, form := draftForm(r)

	post, err := c.blog.Save(r.Context(), auth.UserID(), postID, form)
	if err != nil {
		if saveErr := c.drafts.Autosave(r.Context(), auth.UserID(), postID, form); saveErr != nil {
			c.finish(w, r, "AdminBlogSave", editorPath(postID), fmt.Errorf("%w (draft not kept: %v)", err, saveErr), "", nil)
			return
		}
		c.finish(w, r, "AdminBlogSave", editorPath(postID), err, "", nil)
		return
	}
	c.finish(w, r, "AdminBlogSave", "/admin/blog", nil, "Post saved.", post)
}

// ConfirmDelete handles GET /admin/blog/{id}/delete
func (c *AdminBlogController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := pathInt(r, "id"); err != nil {
		c.notFound(w, r)
		return
	}
	c.confirm(w, r, "Delete this post and its comments? This cannot be undone.", r.URL.Path, "/admin/blog", nil)
}

// Delete handles POST /admin/blog/{id}/delete (confirm=yes)
func (c *AdminBlogController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		c.notFound(w, r)
		return
	}
	if !confirmed(r) {
		c.finish(w, r, "AdminBlogDelete", r.URL.Path, listsync.ErrNotConfirmed, "", nil)
		return
	}
	_, auth, r := apiContext(r)
	err = c.blog.Delete(r.Context(), auth.UserID(), id)
	c.finish(w, r, "AdminBlogDelete", "/admin/blog", err, "Post deleted.", nil)
}

// UploadImage handles POST /admin/blog/images (multipart field "image") and
// answers the public URL to insert into the post
func (c *AdminBlogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	_, _, r = apiContext(r)
	file, header, err := formFile(w, r, "image", c.maxMB)
	back := backTo(r, "/admin/blog/new")
	if err != nil {
		c.finish(w, r, "AdminBlogImage", back, err, "", nil)
		return
	}
	defer file.Close()

	url, err := c.blog.UploadImage(r.Context(), file, header)
	success := ""
	if err == nil {
		success = "Image uploaded: " + url
	}
	c.finish(w, r, "AdminBlogImage", back, err, success, map[string]string{"url": url})
}
