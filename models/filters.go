package models

// UserFilter narrows the admin user list
type UserFilter struct {
	Search string `json:"search,omitempty"`
	Status string `json:"status,omitempty"`
	Role   string `json:"role,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// LogFilter narrows the admin log list
type LogFilter struct {
	Search string `json:"search,omitempty"`
	Action string `json:"action,omitempty"`
	Level  string `json:"level,omitempty"`
	Date   string `json:"date,omitempty"`
}

// BlogFilter narrows a blog post listing
type BlogFilter struct {
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
}
