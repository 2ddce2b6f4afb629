package repository

import (
	"context"
	"net/http"

	"brickvault/apiclient"
	"brickvault/models"
)

// AuthRepositoryInterface defines the contract for sign-in and identity checks
type AuthRepositoryInterface interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, []*http.Cookie, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	CheckAdmin(ctx context.Context) (bool, error)
}

// SetRepositoryInterface defines the contract for the set catalogue
type SetRepositoryInterface interface {
	Search(ctx context.Context, query string, page int) ([]models.Set, models.Pagination, error)
	GetByNum(ctx context.Context, setNum string) (*models.SetDetail, error)
	Latest(ctx context.Context, limit int) ([]models.Set, error)
}

// ThemeRepositoryInterface defines the contract for theme browsing
type ThemeRepositoryInterface interface {
	List(ctx context.Context) ([]models.Theme, error)
	GetByID(ctx context.Context, id int) (*models.Theme, error)
	SubThemes(ctx context.Context, id int) ([]models.Theme, error)
	Sets(ctx context.Context, themeID, offset, limit int) ([]models.Set, models.Pagination, error)
}

// CollectionRepositoryInterface defines the contract for the signed-in user's collection.
// Its mutations match the listsync capabilities so a repository can be plugged in directly.
type CollectionRepositoryInterface interface {
	List(ctx context.Context) ([]models.Set, error)
	Stats(ctx context.Context) (*models.CollectionStats, error)
	Add(ctx context.Context, items []models.AddItem) error
	UpdateQuantity(ctx context.Context, setNum string, quantity int) error
	SetComplete(ctx context.Context, setNum string, complete bool) error
	Remove(ctx context.Context, setNum string) error
}

// WishlistRepositoryInterface defines the contract for the signed-in user's wishlist
type WishlistRepositoryInterface interface {
	List(ctx context.Context) ([]models.Set, error)
	Add(ctx context.Context, items []models.AddItem) error
	Remove(ctx context.Context, setNum string) error
	MoveToCollection(ctx context.Context, setNum string) error
}

// UserRepositoryInterface defines the contract for profiles and admin user management
type UserRepositoryInterface interface {
	PublicSets(ctx context.Context, username string) (*models.User, []models.Set, error)
	Profile(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	UploadAvatar(ctx context.Context, file apiclient.FilePart) (string, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, models.Pagination, error)
	Stats(ctx context.Context) (*models.UserStats, error)
	UpdateStatus(ctx context.Context, userID int, status string) error
	Delete(ctx context.Context, userID int) error
}

// PriceRepositoryInterface defines the contract for the price tool
type PriceRepositoryInterface interface {
	SearchWithPrices(ctx context.Context, query string, page int) ([]models.Set, models.Pagination, error)
	Offers(ctx context.Context, setNum string) ([]models.PriceOffer, error)
	Refresh(ctx context.Context, setNum string) ([]models.PriceOffer, error)
}

// BlogRepositoryInterface defines the contract for the public blog and its admin
type BlogRepositoryInterface interface {
	Posts(ctx context.Context, filter models.BlogFilter) ([]models.BlogPost, models.Pagination, error)
	Categories(ctx context.Context) ([]models.BlogCategory, error)
	PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Comments(ctx context.Context, postID int) ([]models.BlogComment, error)
	AddComment(ctx context.Context, postID int, content string) error
	AdminPosts(ctx context.Context, filter models.BlogFilter) ([]models.BlogPost, models.Pagination, error)
	AdminStats(ctx context.Context) (*models.BlogStats, error)
	PostByID(ctx context.Context, id int) (*models.BlogPost, error)
	SavePost(ctx context.Context, id int, draft models.BlogDraft) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id int) error
	UploadImage(ctx context.Context, file apiclient.FilePart) (string, error)
}

// TrophyRepositoryInterface defines the contract for trophy administration
type TrophyRepositoryInterface interface {
	List(ctx context.Context, offset, limit int) ([]models.Trophy, models.Pagination, error)
	Stats(ctx context.Context) (*models.TrophyStats, error)
	Create(ctx context.Context, trophy models.Trophy) error
	Delete(ctx context.Context, id int) error
	UserTrophies(ctx context.Context, userID int) ([]models.Trophy, error)
	Assign(ctx context.Context, a models.TrophyAssignment) error
	Unassign(ctx context.Context, a models.TrophyAssignment) error
}

// LogRepositoryInterface defines the contract for the admin audit log
type LogRepositoryInterface interface {
	List(ctx context.Context, filter models.LogFilter, offset, limit int) ([]models.LogEntry, models.Pagination, error)
	Stats(ctx context.Context) (*models.LogStats, error)
	FilterOptions(ctx context.Context) (*models.LogFilterOptions, error)
}

// PreferenceRepositoryInterface defines the contract for per-user display
// preferences and editor drafts kept on this side of the API
type PreferenceRepositoryInterface interface {
	GetPreference(ctx context.Context, userID int, key string) (string, bool, error)
	SetPreference(ctx context.Context, userID int, key, value string) error
	LoadDraft(ctx context.Context, userID int, key string) (*models.BlogDraft, error)
	SaveDraft(ctx context.Context, userID int, key string, draft models.BlogDraft) error
	DeleteDraft(ctx context.Context, userID int, key string) error
}
