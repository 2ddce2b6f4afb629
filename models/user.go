package models

// User represents an account as returned by the API
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	IsAdmin     bool   `json:"is_admin"`
	Status      string `json:"status,omitempty"` // active, suspended, banned
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	SetCount    int    `json:"set_count,omitempty"`
	TrophyCount int    `json:"trophy_count,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	LastLogin   string `json:"last_login,omitempty"`
}

// UserStats represents the admin dashboard counters for users
type UserStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	SuspendedUsers int `json:"suspended_users"`
	AdminUsers     int `json:"admin_users"`
	NewThisMonth   int `json:"new_this_month"`
}

// ProfileUpdate represents the editable profile fields
type ProfileUpdate struct {
	Bio      string `json:"bio"`
	Location string `json:"location"`
}

// Credentials represents the login form
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
