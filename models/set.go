package models

import "fmt"

// Set represents a LEGO set as returned by the API.
// Quantity and Complete are only populated in collection and wishlist contexts.
type Set struct {
	SetNum         string             `json:"set_num"`
	Name           string             `json:"name"`
	Year           int                `json:"year"`
	NumParts       int                `json:"num_parts"`
	NumMinifigures int                `json:"num_minifigures"`
	ImgURL         string             `json:"img_url"`
	ThemeID        int                `json:"theme_id"`
	ThemeName      string             `json:"theme_name"`
	Quantity       int                `json:"quantity,omitempty"`
	Complete       int                `json:"complete,omitempty"` // 0 or 1
	Prices         map[string]float64 `json:"prices,omitempty"`
}

// ItemKey returns the stable id used for selection and de-duplication.
func (s Set) ItemKey() string {
	return s.SetNum
}

// Owned reports whether the quantity came from the server, i.e. the set is
// a confirmed member of a collection.
func (s Set) Owned() bool {
	return s.Quantity > 0
}

// IsComplete reports whether the complete flag is set.
func (s Set) IsComplete() bool {
	return s.Complete == 1
}

// Price returns the price for the given field, or 0 when missing.
func (s Set) Price(field string) float64 {
	if s.Prices == nil {
		return 0
	}
	return s.Prices[field]
}

// Validate checks the fields every set record must carry.
func (s Set) Validate() error {
	if s.SetNum == "" {
		return fmt.Errorf("set is missing set_num")
	}
	return nil
}

// AddItem is one element of a collection/wishlist add request.
// Example: [{"setNum": "10220-1", "quantity": 2}]
type AddItem struct {
	SetNum   string `json:"setNum"`
	Quantity int    `json:"quantity"`
}

// SetDetail represents the detail payload of a single set
type SetDetail struct {
	Set
	InCollection int    `json:"in_collection"`
	InWishlist   bool   `json:"in_wishlist"`
	ThemeParent  string `json:"theme_parent,omitempty"`
}

// CollectionStats aggregates a loaded collection
type CollectionStats struct {
	TotalSets     int `json:"total_sets"`
	UniqueSets    int `json:"unique_sets"`
	TotalParts    int `json:"total_parts"`
	TotalMinifigs int `json:"total_minifigs"`
	UniqueThemes  int `json:"unique_themes"`
	CompleteSets  int `json:"complete_sets"`
}
