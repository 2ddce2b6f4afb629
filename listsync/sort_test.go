package listsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brickvault/models"
)

func setNums(items []models.Set) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SetNum
	}
	return out
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw  string
		want SortSpec
	}{
		{"", SortSpec{Field: SortName}},
		{"year_desc", SortSpec{Field: SortYear, Desc: true}},
		{"parts_asc", SortSpec{Field: SortParts}},
		{"price:amazon_desc", SortSpec{Field: SortPrice, PriceField: "amazon", Desc: true}},
		{"bogus", SortSpec{Field: SortName}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSort(tt.raw), tt.raw)
	}
	assert.Equal(t, "price:amazon_desc", ParseSort("price:amazon_desc").String())
}

func TestSortIsStableAndClientSide(t *testing.T) {
	items := []models.Set{
		{SetNum: "a", Name: "Zebra", Year: 2020, NumParts: 10},
		{SetNum: "b", Name: "apple", Year: 2019, NumParts: 10},
		{SetNum: "c", Name: "Mango", Year: 2020, NumParts: 5},
	}

	assert.Equal(t, []string{"b", "c", "a"}, setNums(Sort(items, SortSpec{Field: SortName})))
	assert.Equal(t, []string{"a", "c", "b"}, setNums(Sort(items, SortSpec{Field: SortYear, Desc: true})))
	assert.Equal(t, []string{"c", "a", "b"}, setNums(Sort(items, SortSpec{Field: SortParts})))
	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, setNums(items))
}

func TestSortByPriceTreatsMissingAsZero(t *testing.T) {
	items := []models.Set{
		{SetNum: "a", Prices: map[string]float64{"lego": 99.99}},
		{SetNum: "b"},
		{SetNum: "c", Prices: map[string]float64{"lego": 19.99}},
	}
	assert.Equal(t, []string{"b", "c", "a"}, setNums(Sort(items, SortSpec{Field: SortPrice, PriceField: "lego"})))
}

func TestGroupByThemePromotesFavorite(t *testing.T) {
	items := []models.Set{
		{SetNum: "1", Name: "B", ThemeID: 10, ThemeName: "Technic"},
		{SetNum: "2", Name: "A", ThemeID: 20, ThemeName: "Castle"},
		{SetNum: "3", Name: "C", ThemeID: 30, ThemeName: "Star Wars"},
		{SetNum: "4", Name: "A", ThemeID: 10, ThemeName: "Technic"},
	}

	for _, desc := range []bool{false, true} {
		groups := GroupByTheme(items, SortSpec{Field: SortName, Desc: desc}, 30, map[int]bool{10: true})
		var names []string
		for _, g := range groups {
			names = append(names, g.ThemeName)
		}
		if desc {
			assert.Equal(t, []string{"Star Wars", "Technic", "Castle"}, names)
		} else {
			assert.Equal(t, []string{"Star Wars", "Castle", "Technic"}, names)
		}
		for _, g := range groups {
			if g.ThemeID == 10 {
				assert.True(t, g.Collapsed)
				assert.Len(t, g.Items, 2)
			}
		}
	}
}
