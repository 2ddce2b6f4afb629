package listsync

import (
	"sort"
	"strings"

	"brickvault/models"
)

// SortField names a client-side sort key.
type SortField string

const (
	SortName  SortField = "name"
	SortYear  SortField = "year"
	SortParts SortField = "parts"
	SortPrice SortField = "price"
)

// SortSpec is a parsed sort selection. PriceField names the price entry
// when Field is SortPrice.
type SortSpec struct {
	Field      SortField
	PriceField string
	Desc       bool
}

// ParseSort reads values such as "name", "year_desc", "parts_asc" or
// "price:amazon_desc". Unknown fields fall back to name.
func ParseSort(raw string) SortSpec {
	raw = strings.ToLower(strings.TrimSpace(raw))
	spec := SortSpec{Field: SortName}
	if strings.HasSuffix(raw, "_desc") {
		spec.Desc = true
		raw = strings.TrimSuffix(raw, "_desc")
	} else {
		raw = strings.TrimSuffix(raw, "_asc")
	}

	field, priceField, _ := strings.Cut(raw, ":")
	switch SortField(field) {
	case SortYear, SortParts:
		spec.Field = SortField(field)
	case SortPrice:
		spec.Field = SortPrice
		spec.PriceField = priceField
	}
	return spec
}

// String renders the spec back into its query form.
func (s SortSpec) String() string {
	out := string(s.Field)
	if s.Field == SortPrice && s.PriceField != "" {
		out += ":" + s.PriceField
	}
	if s.Desc {
		return out + "_desc"
	}
	return out + "_asc"
}

func (s SortSpec) less(a, b models.Set) bool {
	switch s.Field {
	case SortYear:
		return a.Year < b.Year
	case SortParts:
		return a.NumParts < b.NumParts
	case SortPrice:
		return a.Price(s.PriceField) < b.Price(s.PriceField)
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

// Sort returns a stably sorted copy of items. It never touches the server.
func Sort(items []models.Set, spec SortSpec) []models.Set {
	out := append([]models.Set(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Desc {
			return spec.less(out[j], out[i])
		}
		return spec.less(out[i], out[j])
	})
	return out
}

// Group is one theme section of a grouped list.
type Group struct {
	ThemeID   int
	ThemeName string
	Items     []models.Set
	Favorite  bool
	Collapsed bool
}

// GroupByTheme splits items by theme_id. Groups are ordered by theme name in
// the direction of spec, except that favoriteThemeID, when present, always
// comes first. Items inside each group are sorted by spec.
func GroupByTheme(items []models.Set, spec SortSpec, favoriteThemeID int, collapsed map[int]bool) []Group {
	index := make(map[int]int)
	var groups []Group
	for _, it := range Sort(items, spec) {
		i, ok := index[it.ThemeID]
		if !ok {
			i = len(groups)
			index[it.ThemeID] = i
			groups = append(groups, Group{
				ThemeID:   it.ThemeID,
				ThemeName: it.ThemeName,
				Favorite:  favoriteThemeID != 0 && it.ThemeID == favoriteThemeID,
				Collapsed: collapsed[it.ThemeID],
			})
		}
		groups[i].Items = append(groups[i].Items, it)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Favorite != groups[j].Favorite {
			return groups[i].Favorite
		}
		a, b := strings.ToLower(groups[i].ThemeName), strings.ToLower(groups[j].ThemeName)
		if spec.Desc {
			return a > b
		}
		return a < b
	})
	return groups
}
