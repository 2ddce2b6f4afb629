package repository

import (
	"context"
	"net/url"
	"strconv"

	"brickvault/apiclient"
	"brickvault/models"
)

// LogRepository reads the admin audit log
type LogRepository struct {
	client *apiclient.Client
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(client *apiclient.Client) *LogRepository {
	return &LogRepository{client: client}
}

// Ensure LogRepository implements LogRepositoryInterface
var _ LogRepositoryInterface = (*LogRepository)(nil)

// List returns one offset/limit window of log entries matching filter
func (r *LogRepository) List(ctx context.Context, filter models.LogFilter, offset, limit int) ([]models.LogEntry, models.Pagination, error) {
	q := url.Values{}
	setIfPresent(q, "search", filter.Search)
	setIfPresent(q, "action", filter.Action)
	setIfPresent(q, "level", filter.Level)
	setIfPresent(q, "date", filter.Date)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	payload, err := apiclient.Get[logsPayload](ctx, r.client, pathLogs, q).Unwrap()
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Logs, payload.Pagination, nil
}

// Stats returns the log counters
func (r *LogRepository) Stats(ctx context.Context) (*models.LogStats, error) {
	payload, err := apiclient.Get[logStatsPayload](ctx, r.client, pathLogStats, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return &payload.Stats, nil
}

// FilterOptions returns the values the log filters can take
func (r *LogRepository) FilterOptions(ctx context.Context) (*models.LogFilterOptions, error) {
	payload, err := apiclient.Get[logFiltersPayload](ctx, r.client, pathLogFilters, nil).Unwrap()
	if err != nil {
		return nil, err
	}
	return &payload.Filters, nil
}
