package repository

import (
	"fmt"

	"brickvault/models"
)

// Per-endpoint response records. Each validates the fields the pages depend
// on, so a malformed answer fails at the boundary instead of in a template.

type userPayload struct {
	User *models.User `json:"user"`
}

func (p *userPayload) Validate() error {
	if p.User == nil || p.User.ID == 0 {
		return fmt.Errorf("missing user")
	}
	return nil
}

type adminCheckPayload struct {
	IsAdmin bool `json:"is_admin"`
}

type setsPayload struct {
	Sets       []models.Set      `json:"sets"`
	Pagination models.Pagination `json:"pagination"`
}

func (p *setsPayload) Validate() error {
	return validateSets(p.Sets)
}

type setPayload struct {
	Set *models.SetDetail `json:"set"`
}

func (p *setPayload) Validate() error {
	if p.Set == nil {
		return fmt.Errorf("missing set")
	}
	return p.Set.Validate()
}

type themesPayload struct {
	Themes []models.Theme `json:"themes"`
}

func (p *themesPayload) Validate() error {
	for i, t := range p.Themes {
		if t.ID == 0 {
			return fmt.Errorf("theme %d is missing id", i)
		}
	}
	return nil
}

type themePayload struct {
	Theme *models.Theme `json:"theme"`
}

func (p *themePayload) Validate() error {
	if p.Theme == nil || p.Theme.ID == 0 {
		return fmt.Errorf("missing theme")
	}
	return nil
}

type collectionPayload struct {
	Sets  []models.Set            `json:"sets"`
	Stats *models.CollectionStats `json:"stats,omitempty"`
}

func (p *collectionPayload) Validate() error {
	return validateSets(p.Sets)
}

type collectionStatsPayload struct {
	Stats models.CollectionStats `json:"stats"`
}

type userSetsPayload struct {
	User *models.User `json:"user"`
	Sets []models.Set `json:"sets"`
}

func (p *userSetsPayload) Validate() error {
	if p.User == nil {
		return fmt.Errorf("missing user")
	}
	return validateSets(p.Sets)
}

type usersPayload struct {
	Users      []models.User     `json:"users"`
	Pagination models.Pagination `json:"pagination"`
}

func (p *usersPayload) Validate() error {
	for i, u := range p.Users {
		if u.ID == 0 {
			return fmt.Errorf("user %d is missing id", i)
		}
	}
	return nil
}

type userStatsPayload struct {
	Stats models.UserStats `json:"stats"`
}

type uploadPayload struct {
	URL string `json:"url"`
}

func (p *uploadPayload) Validate() error {
	if p.URL == "" {
		return fmt.Errorf("missing uploaded file url")
	}
	return nil
}

type offersPayload struct {
	Offers []models.PriceOffer `json:"offers"`
}

func (p *offersPayload) Validate() error {
	for i, o := range p.Offers {
		if o.Retailer == "" {
			return fmt.Errorf("offer %d is missing retailer", i)
		}
		if o.Price < 0 {
			return fmt.Errorf("offer %d has a negative price", i)
		}
	}
	return nil
}

type postsPayload struct {
	Posts      []models.BlogPost `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

func (p *postsPayload) Validate() error {
	for i, post := range p.Posts {
		if post.ID == 0 {
			return fmt.Errorf("post %d is missing id", i)
		}
	}
	return nil
}

type postPayload struct {
	Post *models.BlogPost `json:"post"`
}

func (p *postPayload) Validate() error {
	if p.Post == nil || p.Post.ID == 0 {
		return fmt.Errorf("missing post")
	}
	return nil
}

type categoriesPayload struct {
	Categories []models.BlogCategory `json:"categories"`
}

type commentsPayload struct {
	Comments []models.BlogComment `json:"comments"`
}

type blogStatsPayload struct {
	Stats models.BlogStats `json:"stats"`
}

type trophiesPayload struct {
	Trophies   []models.Trophy   `json:"trophies"`
	Pagination models.Pagination `json:"pagination"`
}

func (p *trophiesPayload) Validate() error {
	for i, t := range p.Trophies {
		if t.ID == 0 {
			return fmt.Errorf("trophy %d is missing id", i)
		}
	}
	return nil
}

type trophyStatsPayload struct {
	Stats models.TrophyStats `json:"stats"`
}

type logsPayload struct {
	Logs       []models.LogEntry `json:"logs"`
	Pagination models.Pagination `json:"pagination"`
}

type logStatsPayload struct {
	Stats models.LogStats `json:"stats"`
}

type logFiltersPayload struct {
	Filters models.LogFilterOptions `json:"filters"`
}

func validateSets(sets []models.Set) error {
	for i, s := range sets {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("set %d: %w", i, err)
		}
	}
	return nil
}
