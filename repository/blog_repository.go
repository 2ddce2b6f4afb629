package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/models"
)

// BlogRepository reads the public blog and manages posts for admins
type BlogRepository struct {
	client *apiclient.Client
}

// NewBlogRepository creates a new BlogRepository
func NewBlogRepository(client *apiclient.Client) *BlogRepository {
	return &BlogRepository{client: client}
}

// Ensure BlogRepository implements BlogRepositoryInterface
var _ BlogRepositoryInterface = (*BlogRepository)(nil)

// Posts returns one page of published posts
func (r *BlogRepository) Posts(ctx context.Context, filter models.BlogFilter) ([]models.BlogPost, models.Pagination, error) {
	return r.posts(ctx, pathBlogPosts, filter)
}

// AdminPosts returns one page of posts in any status
func (r *BlogRepository) AdminPosts(ctx context.Context, filter models.BlogFilter) ([]models.BlogPost, models.Pagination, error) {
	return r.posts(ctx, pathAdminBlogPosts, filter)
}

func (r *BlogRepository) posts(ctx context.Context, path string, filter models.BlogFilter) ([]models.BlogPost, models.Pagination, error) {
	q := url.Values{}
	setIfPresent(q, "category", filter.Category)
	setIfPresent(q, "status", filter.Status)
	setIfPresent(q, "search", filter.Search)
	q.Set("page", strconv.Itoa(max(filter.Page, 1)))
	payload, err := apiclient.Get[postsPayload](ctx, r.client, path, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Posts, payload.Pagination, nil
}

// Categories returns every blog category
func (r *BlogRepository) Categories(ctx context.Context) ([]models.BlogCategory, error) {
	payload, err := apiclient.Get[categoriesPayload](ctx, r.client, pathBlogCategories, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// PostBySlug returns a published post
func (r *BlogRepository) PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	q := url.Values{}
	q.Set("slug", slug)
	payload, err := apiclient.Get[postPayload](ctx, r.client, pathBlogPost, q).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Post, nil
}

// PostByID returns any post for the editor
func (r *BlogRepository) PostByID(ctx context.Context, id int) (*models.BlogPost, error) {
	payload, err := apiclient.Get[postPayload](ctx, r.client, pathAdminBlogPost, idQuery("id", id)).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Post, nil
}

// Comments returns the comments of a post
func (r *BlogRepository) Comments(ctx context.Context, postID int) ([]models.BlogComment, error) {
	payload, err := apiclient.Get[commentsPayload](ctx, r.client, pathBlogComments, idQuery("post_id", postID)).Unwrap()
	if err != nil {
		return nil, err
	}
	return payload.Comments, nil
}

// AddComment posts a comment as the signed-in user
func (r *BlogRepository) AddComment(ctx context.Context, postID int, content string) error {
	body := map[string]any{"post_id": postID, "content": content}
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathBlogAddComment, body)
}

// AdminStats returns the blog counters
func (r *BlogRepository) AdminStats(ctx context.Context) (*models.BlogStats, error) {
	payload, err := apiclient.Get[blogStatsPayload](ctx, r.client, pathAdminBlogStats, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return &payload.Stats, nil
}

// SavePost creates a post when id is 0 and updates it otherwise
func (r *BlogRepository) SavePost(ctx context.Context, id int, draft models.BlogDraft) (*models.BlogPost, error) {
	zap.S().Infof("📝 SavePost: id=%d title=%q status=%s", id, draft.Title, draft.Status)
	body := struct {
		ID int `json:"id,omitempty"`
		models.BlogDraft
	}{ID: id, BlogDraft: draft}
	payload, err := apiclient.Post[postPayload](ctx, r.client, pathAdminBlogSave, body).Unwrap()
	if err != nil {
		zap.S().Errorf("❌ SavePost: id=%d: %v", id, err)
		return nil, err
	}
	return payload.Post, nil
}

// DeletePost removes a post
func (r *BlogRepository) DeletePost(ctx context.Context, id int) error {
	zap.S().Infof("🗑️ DeletePost: id=%d", id)
	return apiclient.Exec(ctx, r.client, http.MethodPost, pathAdminBlogDelete, map[string]int{"id": id})
}

// UploadImage sends an image for use in a post and returns its URL
func (r *BlogRepository) UploadImage(ctx context.Context, file apiclient.FilePart) (string, error) {
	var payload uploadPayload
	if err := r.client.Upload(ctx, pathAdminBlogUpload, file, nil, &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}
