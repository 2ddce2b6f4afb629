package service

import (
	"context"
	"html/template"
	"mime/multipart"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"brickvault/models"
	"brickvault/repository"
	"brickvault/utils"
)

// WordsPerMinute is the reading speed used for reading time estimates
const WordsPerMinute = 200

// BlogService serves the public blog and the admin blog screens
type BlogService struct {
	blog    repository.BlogRepositoryInterface
	drafts  *DraftService
	uploads *UploadService
	policy  *bluemonday.Policy
}

// NewBlogService creates a new BlogService
func NewBlogService(blog repository.BlogRepositoryInterface, drafts *DraftService, uploads *UploadService) *BlogService {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("pre", "code", "figure", "img")
	return &BlogService{
		blog:    blog,
		drafts:  drafts,
		uploads: uploads,
		policy:  policy,
	}
}

// BlogIndex is one page of the blog listing
type BlogIndex struct {
	Posts      []models.BlogPost
	Pagination models.Pagination
	Categories []models.BlogCategory
}

// Index fetches posts and categories in parallel
func (s *BlogService) Index(ctx context.Context, filter models.BlogFilter) (*BlogIndex, error) {
	index := &BlogIndex{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		index.Posts, index.Pagination, err = s.blog.Posts(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		index.Categories, err = s.blog.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ BlogIndex: %v", err)
		return nil, err
	}
	return index, nil
}

// Article is a post ready to render
type Article struct {
	Post           *models.BlogPost
	Body           template.HTML
	Comments       []models.BlogComment
	ReadingMinutes int
}

// Article fetches the post, then its comments
func (s *BlogService) Article(ctx context.Context, slug string) (*Article, error) {
	post, err := s.blog.PostBySlug(ctx, slug)
	if err != nil {
		zap.S().Errorf("❌ BlogArticle: slug=%s: %v", slug, err)
		return nil, err
	}
	comments, err := s.blog.Comments(ctx, post.ID)
	if err != nil {
		zap.S().Errorf("❌ BlogArticle: comments for post=%d: %v", post.ID, err)
		return nil, err
	}
	return &Article{
		Post:           post,
		Body:           s.Sanitize(post.Content),
		Comments:       comments,
		ReadingMinutes: ReadingMinutes(post.Content),
	}, nil
}

// AddComment validates and posts a comment
func (s *BlogService) AddComment(ctx context.Context, postID int, content string) error {
	content = strings.TrimSpace(content)
	if err := utils.ValidateComment(content); err != nil {
		return err
	}
	return s.blog.AddComment(ctx, postID, content)
}

// Sanitize strips anything unsafe from post HTML
func (s *BlogService) Sanitize(body string) template.HTML {
	return template.HTML(s.policy.Sanitize(body))
}

// ReadingMinutes estimates reading time from the words in the text nodes of
// an HTML body, rounded up, never less than one minute.
func ReadingMinutes(body string) int {
	words := CountWords(body)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// CountWords counts whitespace separated words in the text of an HTML
// fragment, skipping script and style content.
func CountWords(body string) int {
	z := html.NewTokenizer(strings.NewReader(body))
	words := 0
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return words
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words += len(strings.Fields(string(z.Text())))
			}
		}
	}
}

func isRawText(tag []byte) bool {
	t := string(tag)
	return t == "script" || t == "style"
}

// AdminBlogPage is the admin post list
type AdminBlogPage struct {
	Posts      []models.BlogPost
	Pagination models.Pagination
	Stats      *models.BlogStats
	Categories []models.BlogCategory
}

// AdminIndex fetches posts, stats and categories in parallel
func (s *BlogService) AdminIndex(ctx context.Context, filter models.BlogFilter) (*AdminBlogPage, error) {
	page := &AdminBlogPage{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Posts, page.Pagination, err = s.blog.AdminPosts(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		page.Stats, err = s.blog.AdminStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		page.Categories, err = s.blog.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ AdminBlogIndex: %v", err)
		return nil, err
	}
	return page, nil
}

// EditorState is the form the post editor shows
type EditorState struct {
	PostID     int
	Form       models.BlogDraft
	Restored   bool // Form came from an autosaved draft
	Categories []models.BlogCategory
}

// Editor loads the post (when editing), the autosaved draft and the categories
// in parallel. A saved draft wins over the stored post.
func (s *BlogService) Editor(ctx context.Context, userID, postID int) (*EditorState, error) {
	state := &EditorState{PostID: postID, Form: models.BlogDraft{Status: "draft"}}
	var post *models.BlogPost
	var draft *models.BlogDraft

	g, gctx := errgroup.WithContext(ctx)
	if postID > 0 {
		g.Go(func() error {
			var err error
			post, err = s.blog.PostByID(gctx, postID)
			return err
		})
	}
	g.Go(func() error {
		draft = s.drafts.Load(gctx, userID, postID)
		return nil
	})
	g.Go(func() error {
		var err error
		state.Categories, err = s.blog.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ BlogEditor: post=%d: %v", postID, err)
		return nil, err
	}

	if post != nil {
		state.Form = DraftFromPost(*post)
	}
	if draft != nil {
		state.Form = *draft
		state.Restored = true
	}
	return state, nil
}

// Save validates the form, creates or updates the post and discards the draft
func (s *BlogService) Save(ctx context.Context, userID, postID int, form models.BlogDraft) (*models.BlogPost, error) {
	form.Title = strings.TrimSpace(form.Title)
	if strings.TrimSpace(form.Slug) == "" {
		form.Slug = utils.Slugify(form.Title)
	}
	if err := utils.ValidateDraft(form); err != nil {
		return nil, err
	}
	post, err := s.blog.SavePost(ctx, postID, form)
	if err != nil {
		return nil, err
	}
	s.drafts.Discard(ctx, userID, postID)
	return post, nil
}

// Delete removes a post and any draft of it
func (s *BlogService) Delete(ctx context.Context, userID, postID int) error {
	if err := s.blog.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.drafts.Discard(ctx, userID, postID)
	return nil
}

// DraftFromPost turns a stored post into editor form values
func DraftFromPost(p models.BlogPost) models.BlogDraft {
	return models.BlogDraft{
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		CategoryID:    p.CategoryID,
		Status:        p.Status,
		FeaturedImage: p.FeaturedImage,
		Tags:          strings.Join(p.Tags, ", "),
	}
}

// UploadImage validates and uploads an image for the post body, returning
// its public URL
func (s *BlogService) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	part, err := s.uploads.Prepare(file, header, s.uploads.BlogImagePolicy())
	if err != nil {
		return "", err
	}
	url, err := s.blog.UploadImage(ctx, part)
	if err != nil {
		zap.S().Errorf("❌ BlogUploadImage: %v", err)
		return "", err
	}
	return url, nil
}
