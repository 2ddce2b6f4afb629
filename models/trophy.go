package models

// Trophy represents an achievement that admins can award to users
type Trophy struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Points      int    `json:"points"`
	Rarity      string `json:"rarity,omitempty"` // common, rare, epic, legendary
	HolderCount int    `json:"holder_count,omitempty"`
	AwardedAt   string `json:"awarded_at,omitempty"`
}

// TrophyStats represents the trophy admin counters
type TrophyStats struct {
	TotalTrophies int `json:"total_trophies"`
	TotalAwarded  int `json:"total_awarded"`
	UsersWithAny  int `json:"users_with_trophies"`
}

// TrophyAssignment represents an assign/unassign request
type TrophyAssignment struct {
	UserID   int `json:"user_id"`
	TrophyID int `json:"trophy_id"`
}
