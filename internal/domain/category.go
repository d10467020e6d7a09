package domain

import "strings"

// Category is a topical hint constraining quote generation.
type Category string

// The fixed set of categories, in display order.
const (
	// CategoryGeneral lets the generator pick its own profound topic.
	CategoryGeneral    Category = "General"
	CategoryMotivation Category = "Motivation"
	CategoryHappiness  Category = "Happiness"
	CategoryLove       Category = "Love"
	CategorySuccess    Category = "Success"
	CategoryWisdom     Category = "Wisdom"
	CategoryLife       Category = "Life"
	CategoryFriendship Category = "Friendship"
	CategoryHope       Category = "Hope"
	CategoryCourage    Category = "Courage"
)

var categories = []Category{
	CategoryGeneral,
	CategoryMotivation,
	CategoryHappiness,
	CategoryLove,
	CategorySuccess,
	CategoryWisdom,
	CategoryLife,
	CategoryFriendship,
	CategoryHope,
	CategoryCourage,
}

// Categories returns the ten categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// ParseCategory resolves a label case-insensitively.
// An empty label is General.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryGeneral, nil
	}

	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}

	return "", NewValidationErrorWithValue("category", "unknown category", s)
}

// IsGeneral reports whether the category leaves the topic unconstrained.
func (c Category) IsGeneral() bool {
	return c == CategoryGeneral
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
