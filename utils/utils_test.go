package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"brickvault/models"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "EUR", "€0.00"},
		{12.5, "EUR", "€12.50"},
		{1234.567, "usd", "$1,234.57"},
		{-3.05, "GBP", "-£3.05"},
		{1000000, "CHF", "CHF 1,000,000.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatPrice(c.amount, c.currency))
	}
	assert.Equal(t, "7,541", FormatCount(7541))
	assert.Equal(t, "-1,000", FormatCount(-1000))
}

func TestValidateProfile(t *testing.T) {
	assert.NoError(t, ValidateProfile(models.ProfileUpdate{Bio: "Castle fan since 1984", Location: "Billund"}))

	err := ValidateProfile(models.ProfileUpdate{Bio: strings.Repeat("a", MaxBioLength+1)})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "bio", vErr.Field)
	assert.Equal(t, "Bio is too long (501 characters). Maximum is 500.", vErr.Message)

	err = ValidateProfile(models.ProfileUpdate{Location: "Billund 🧱"})
	assert.EqualError(t, err, "Location cannot contain emoji.")

	assert.NoError(t, ValidateProfile(models.ProfileUpdate{Location: "Zürich, Schweiz"}))
}

func TestValidateDraftAndComment(t *testing.T) {
	assert.EqualError(t, ValidateDraft(models.BlogDraft{Content: "x", Status: "draft"}), "Title is required.")
	assert.EqualError(t, ValidateDraft(models.BlogDraft{Title: "t", Content: "x", Status: "live"}), "Status must be draft or published.")
	assert.NoError(t, ValidateDraft(models.BlogDraft{Title: "t", Content: "x", Status: "published"}))

	assert.Error(t, ValidateComment("   "))
	assert.NoError(t, ValidateComment("Great build!"))
}

func TestNormalizeSetNum(t *testing.T) {
	got, ok := NormalizeSetNum(" 10220 ")
	assert.True(t, ok)
	assert.Equal(t, "10220-1", got)

	got, ok = NormalizeSetNum("75192-1")
	assert.True(t, ok)
	assert.Equal(t, "75192-1", got)

	_, ok = NormalizeSetNum("millennium falcon")
	assert.False(t, ok)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "top-10-castle-sets-of-1984", Slugify("Top 10 Castle Sets of 1984!"))
}
