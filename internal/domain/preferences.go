package domain

import (
	"errors"
	"slices"
)

var ErrPreferencesNotFound = errors.New("user preferences not found")

// UserPreferences is the derived per-user aggregate that biases the
// personalized and category recommendation strategies.
type UserPreferences struct {
	UserID              string   `json:"user_id"`
	PreferredCategories []int64  `json:"preferred_categories"`
	PreferredTags       []string `json:"preferred_tags"`
	PriceRangeMin       *float64 `json:"price_range_min,omitempty"`
	PriceRangeMax       *float64 `json:"price_range_max,omitempty"`
}

// PreferencesFromCard builds a fresh preference row for a user's first
// recorded interaction.
func PreferencesFromCard(userID string, card Card) UserPreferences {
	price := card.Price
	return UserPreferences{
		UserID:              userID,
		PreferredCategories: []int64{card.CategoryID},
		PreferredTags:       slices.Clone(card.Tags),
		PriceRangeMin:       &price,
		PriceRangeMax:       &price,
	}
}

// ApplyInteraction folds an interacted card into existing preferences:
// category and tags are unioned preserving insertion order, and the stored
// price range widens to include the card's price.
func (p UserPreferences) ApplyInteraction(card Card) UserPreferences {
	if !slices.Contains(p.PreferredCategories, card.CategoryID) {
		p.PreferredCategories = append(slices.Clone(p.PreferredCategories), card.CategoryID)
	}

	tags := slices.Clone(p.PreferredTags)
	for _, tag := range card.Tags {
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	p.PreferredTags = tags

	price := card.Price
	if p.PriceRangeMin == nil || price < *p.PriceRangeMin {
		p.PriceRangeMin = &price
	}
	if p.PriceRangeMax == nil || price > *p.PriceRangeMax {
		p.PriceRangeMax = &price
	}

	return p
}

// PriceInRange reports whether a price falls inside the stored range.
// An unset bound never matches.
func (p UserPreferences) PriceInRange(price float64) bool {
	if p.PriceRangeMin == nil || p.PriceRangeMax == nil {
		return false
	}
	return price >= *p.PriceRangeMin && price <= *p.PriceRangeMax
}

// HasCategories reports whether any preferred categories are stored.
func (p UserPreferences) HasCategories() bool {
	return len(p.PreferredCategories) > 0
}
