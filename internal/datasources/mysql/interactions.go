package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

func (r *Repository) RecordInteraction(ctx context.Context, interaction domain.UserInteraction) error {
	var duration sql.NullInt64
	if interaction.DurationSeconds != nil {
		duration = sql.NullInt64{Int64: *interaction.DurationSeconds, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO user_interactions (user_id, card_id, interaction_type, duration_seconds)
		VALUES (?, ?, ?, ?)`,
		interaction.UserID, interaction.CardID, string(interaction.Type), duration,
	); err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}

func (r *Repository) ListInteractedCardIDs(ctx context.Context, userID string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT card_id FROM user_interactions WHERE user_id = ?", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing interacted card IDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning card ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return ids, nil
}

func (r *Repository) ListRecentStrongInteractionCards(
	ctx context.Context, userID string, limit int,
) ([]domain.Card, error) {
	args := make([]interface{}, 0, len(domain.StrongInteractionTypes)+2)
	args = append(args, userID)
	placeholders := make([]string, 0, len(domain.StrongInteractionTypes))
	for _, interactionType := range domain.StrongInteractionTypes {
		args = append(args, string(interactionType))
		placeholders = append(placeholders, "?")
	}
	args = append(args, limit)

	// One row per card, ranked by that card's most recent strong interaction.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+`
		FROM cards
		JOIN categories ON cards.category_id = categories.id
		JOIN (
			SELECT card_id, MAX(created_at) AS last_interacted
			FROM user_interactions
			WHERE user_id = ? AND interaction_type IN (`+strings.Join(placeholders, ", ")+`)
			GROUP BY card_id
		) strong ON strong.card_id = cards.id
		ORDER BY strong.last_interacted DESC
		LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing strong interaction cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return cards, nil
}

func (r *Repository) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	var categories, tags sql.NullString
	var priceMin, priceMax sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, preferred_categories, preferred_tags, price_range_min, price_range_max
		FROM user_preferences
		WHERE user_id = ?`,
		userID,
	).Scan(&prefs.UserID, &categories, &tags, &priceMin, &priceMax)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserPreferences{}, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("fetching user preferences: %w", err)
	}

	decodedCategories, err := decodeInt64Slice(categories)
	if err != nil {
		return domain.UserPreferences{}, err
	}
	prefs.PreferredCategories = decodedCategories

	decodedTags, err := decodeStringSlice(tags)
	if err != nil {
		return domain.UserPreferences{}, err
	}
	prefs.PreferredTags = decodedTags

	if priceMin.Valid {
		prefs.PriceRangeMin = &priceMin.Float64
	}
	if priceMax.Valid {
		prefs.PriceRangeMax = &priceMax.Float64
	}

	return prefs, nil
}

func (r *Repository) UpsertUserPreferences(ctx context.Context, prefs domain.UserPreferences) error {
	categories, err := encodeInt64Slice(prefs.PreferredCategories)
	if err != nil {
		return err
	}
	tags, err := encodeStringSlice(prefs.PreferredTags)
	if err != nil {
		return err
	}

	var priceMin, priceMax sql.NullFloat64
	if prefs.PriceRangeMin != nil {
		priceMin = sql.NullFloat64{Float64: *prefs.PriceRangeMin, Valid: true}
	}
	if prefs.PriceRangeMax != nil {
		priceMax = sql.NullFloat64{Float64: *prefs.PriceRangeMax, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO user_preferences
			(user_id, preferred_categories, preferred_tags, price_range_min, price_range_max)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			preferred_categories = VALUES(preferred_categories),
			preferred_tags = VALUES(preferred_tags),
			price_range_min = VALUES(price_range_min),
			price_range_max = VALUES(price_range_max)`,
		prefs.UserID, categories, tags, priceMin, priceMax,
	); err != nil {
		return fmt.Errorf("upserting user preferences: %w", err)
	}
	return nil
}

func (r *Repository) ListCandidateCards(
	ctx context.Context, filters datasources.CandidateFilters,
) ([]domain.Card, error) {
	sb := sqlbuilder.Select(cardColumns)
	sb.From("cards")
	sb.Join("categories", "cards.category_id = categories.id")

	conds := []string{
		sb.Equal("cards.moderation_status", string(domain.ModerationStatusApproved)),
	}

	if len(filters.ExcludeCardIDs) > 0 {
		ids := make([]interface{}, 0, len(filters.ExcludeCardIDs))
		for _, id := range filters.ExcludeCardIDs {
			ids = append(ids, id)
		}
		conds = append(conds, sb.NotIn("cards.id", ids...))
	}

	if len(filters.CategoryIDs) > 0 {
		ids := make([]interface{}, 0, len(filters.CategoryIDs))
		for _, id := range filters.CategoryIDs {
			ids = append(ids, id)
		}
		conds = append(conds, sb.In("cards.category_id", ids...))
	}

	sb.Where(conds...)
	sb.OrderBy("cards.created_at DESC")
	if filters.Limit > 0 {
		sb.Limit(filters.Limit)
	}

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing candidate cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return cards, nil
}
