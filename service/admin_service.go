package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/repository"
	"brickvault/utils"
)

// trophyCatalogLimit bounds the trophy list used to build the "available"
// choices when assigning; the catalogue is small.
const trophyCatalogLimit = 500

// UserStatuses are the account states an admin can set
var UserStatuses = []string{"active", "suspended", "banned"}

// AdminService backs the admin back-office screens
type AdminService struct {
	users     repository.UserRepositoryInterface
	trophies  repository.TrophyRepositoryInterface
	logs      repository.LogRepositoryInterface
	batchSize int
}

// NewAdminService creates a new AdminService
func NewAdminService(
	users repository.UserRepositoryInterface,
	trophies repository.TrophyRepositoryInterface,
	logs repository.LogRepositoryInterface,
	batchSize int,
) *AdminService {
	return &AdminService{
		users:     users,
		trophies:  trophies,
		logs:      logs,
		batchSize: batchSize,
	}
}

// UsersPager returns an empty page-number list of users matching filters.
// The filters are read at fetch time, so a filter change followed by a
// fetch of page 1 sees the new values.
func (s *AdminService) UsersPager(filters *listsync.Filters) *listsync.Pager[models.User] {
	return listsync.NewPager(func(ctx context.Context, page int) ([]models.User, models.Pagination, error) {
		filter := models.UserFilter{
			Search: filters.Get("search"),
			Status: filters.Get("status"),
			Role:   filters.Get("role"),
			Page:   page,
		}
		return s.users.List(ctx, filter)
	})
}

// UsersPage loads one page of users and the user counters in parallel
func (s *AdminService) UsersPage(ctx context.Context, pager *listsync.Pager[models.User], page int) (*models.UserStats, error) {
	var stats *models.UserStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := pager.Load(gctx, page)
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			// a later page load replaced this one; the pager shows that page
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.users.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ AdminUsers: page=%d: %v", page, err)
		return nil, err
	}
	return stats, nil
}

// UserStats returns the user counters
func (s *AdminService) UserStats(ctx context.Context) (*models.UserStats, error) {
	return s.users.Stats(ctx)
}

// UpdateUserStatus changes a user's status after checking the value
func (s *AdminService) UpdateUserStatus(ctx context.Context, userID int, status string) error {
	for _, allowed := range UserStatuses {
		if status == allowed {
			return s.users.UpdateStatus(ctx, userID, status)
		}
	}
	return &utils.ValidationError{Field: "status", Message: fmt.Sprintf("Unknown status %q.", status)}
}

// DeleteUser removes a user account
func (s *AdminService) DeleteUser(ctx context.Context, userID int) error {
	return s.users.Delete(ctx, userID)
}

// TrophyLoader returns an empty "load more" list of trophies
func (s *AdminService) TrophyLoader() *listsync.Loader[models.Trophy] {
	return listsync.NewLoader(s.batchSize, func(ctx context.Context, offset, limit int) (listsync.Page[models.Trophy], error) {
		trophies, pagination, err := s.trophies.List(ctx, offset, limit)
		if err != nil {
			return listsync.Page[models.Trophy]{}, err
		}
		return listsync.Page[models.Trophy]{Items: trophies, HasMore: pagination.HasMore}, nil
	})
}

// TrophyStats returns the trophy counters
func (s *AdminService) TrophyStats(ctx context.Context) (*models.TrophyStats, error) {
	return s.trophies.Stats(ctx)
}

// CreateTrophy validates and adds a trophy
func (s *AdminService) CreateTrophy(ctx context.Context, t models.Trophy) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return &utils.ValidationError{Field: "name", Message: "Trophy name is required."}
	}
	if t.Points < 0 {
		return &utils.ValidationError{Field: "points", Message: "Points cannot be negative."}
	}
	return s.trophies.Create(ctx, t)
}

// DeleteTrophy removes a trophy
func (s *AdminService) DeleteTrophy(ctx context.Context, id int) error {
	return s.trophies.Delete(ctx, id)
}

// TrophyAssignments is the assign dialog of one user
type TrophyAssignments struct {
	UserID    int
	Held      []models.Trophy
	Available []models.Trophy
}

// Assignments fetches the user's trophies and the catalogue in parallel.
// Held trophies are filtered out of Available so they cannot be re-assigned.
func (s *AdminService) Assignments(ctx context.Context, userID int) (*TrophyAssignments, error) {
	var held, all []models.Trophy
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		held, err = s.trophies.UserTrophies(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		all, _, err = s.trophies.List(gctx, 0, trophyCatalogLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ TrophyAssignments: user=%d: %v", userID, err)
		return nil, err
	}
	return &TrophyAssignments{
		UserID:    userID,
		Held:      held,
		Available: AvailableTrophies(all, held),
	}, nil
}

// AvailableTrophies returns the trophies of all not present in held, in order
func AvailableTrophies(all, held []models.Trophy) []models.Trophy {
	owned := make(map[int]bool, len(held))
	for _, t := range held {
		owned[t.ID] = true
	}
	out := make([]models.Trophy, 0, len(all))
	for _, t := range all {
		if !owned[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Assign awards a trophy
func (s *AdminService) Assign(ctx context.Context, a models.TrophyAssignment) error {
	return s.trophies.Assign(ctx, a)
}

// Unassign takes a trophy away
func (s *AdminService) Unassign(ctx context.Context, a models.TrophyAssignment) error {
	return s.trophies.Unassign(ctx, a)
}

// LogLoader returns an empty "load more" list of log entries matching filters
func (s *AdminService) LogLoader(filters *listsync.Filters) *listsync.Loader[models.LogEntry] {
	return listsync.NewLoader(s.batchSize, func(ctx context.Context, offset, limit int) (listsync.Page[models.LogEntry], error) {
		filter := models.LogFilter{
			Search: filters.Get("search"),
			Action: filters.Get("action"),
			Level:  filters.Get("level"),
			Date:   filters.Get("date"),
		}
		logs, pagination, err := s.logs.List(ctx, filter, offset, limit)
		if err != nil {
			return listsync.Page[models.LogEntry]{}, err
		}
		return listsync.Page[models.LogEntry]{Items: logs, HasMore: pagination.HasMore}, nil
	})
}

// LogOverview is the header of the log screen
type LogOverview struct {
	Stats   *models.LogStats
	Filters *models.LogFilterOptions
}

// LogOverview fetches log stats and filter values in parallel
func (s *AdminService) LogOverview(ctx context.Context) (*LogOverview, error) {
	out := &LogOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Stats, err = s.logs.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Filters, err = s.logs.FilterOptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("❌ LogOverview: %v", err)
		return nil, err
	}
	return out, nil
}
