package models

// LogEntry represents an audit log line from the admin log endpoint
type LogEntry struct {
	ID        int64  `json:"id"`
	UserID    int    `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Action    string `json:"action"`
	Level     string `json:"level,omitempty"`
	Details   string `json:"details,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ItemKey returns the log id as a string key
func (l LogEntry) ItemKey() string {
	return formatID(l.ID)
}

// LogStats represents the admin log counters
type LogStats struct {
	TotalLogs  int `json:"total_logs"`
	TodayLogs  int `json:"today_logs"`
	ErrorLogs  int `json:"error_logs"`
	UniqueUser int `json:"unique_users"`
}

// LogFilterOptions lists the values the log filters can take
type LogFilterOptions struct {
	Actions []string `json:"actions"`
	Levels  []string `json:"levels"`
}
