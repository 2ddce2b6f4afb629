package models

// Theme represents a node in the theme hierarchy (parent theme -> sub-themes)
type Theme struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	ParentID  *int    `json:"parent_id,omitempty"`
	SetCount  int     `json:"set_count"`
	ImgURL    string  `json:"img_url,omitempty"`
	SubThemes []Theme `json:"sub_themes,omitempty"`
}

// IsRoot reports whether the theme has no parent
func (t Theme) IsRoot() bool {
	return t.ParentID == nil
}
