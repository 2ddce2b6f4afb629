package models

// Envelope is the response convention shared by every API endpoint:
// {"success": true, ...} or {"success": false, "message": "..."}
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Pagination carries the server's paging cursor. Screens use either the
// page-number fields or the offset fields, never both.
type Pagination struct {
	CurrentPage int  `json:"current_page,omitempty"`
	TotalPages  int  `json:"total_pages,omitempty"`
	Offset      int  `json:"offset,omitempty"`
	TotalCount  int  `json:"total_count,omitempty"`
	Limit       int  `json:"limit,omitempty"`
	HasMore     bool `json:"has_more,omitempty"`
}

// HasNext reports whether a page after the current one exists
func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrev reports whether a page before the current one exists
func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}
