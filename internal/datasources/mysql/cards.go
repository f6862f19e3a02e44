package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/toolgrove/marketplace/internal/domain"
)

const cardColumns = `cards.id, cards.title, cards.slug, cards.description, cards.tags,
cards.category_id, categories.name, cards.price, cards.is_premium,
cards.views_count, cards.likes_count, cards.moderation_status,
cards.auto_moderation_score, cards.owner_id, cards.created_at`

func (r *Repository) ListCardIDs(
	ctx context.Context,
	filters domain.CardFilters,
	options domain.CardListOptions,
) ([]int64, error) {
	sb := sqlbuilder.Select("cards.id")
	sb.From("cards")

	conds := buildCardConditions(sb, filters)
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	orderings, err := buildCardOrder(options)
	if err != nil {
		return nil, fmt.Errorf("building cards order by clause: %w", err)
	}

	sb.OrderBy(orderings...)
	limit, offset := paginationToLimitOffset(options.Page, options.PageSize)
	sb.Offset(offset)
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running cards query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cardIDs := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning cards: %w", err)
		}
		cardIDs = append(cardIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return cardIDs, nil
}

func (r *Repository) FetchCardsByID(ctx context.Context, ids []int64) ([]domain.Card, error) {
	if len(ids) == 0 {
		return []domain.Card{}, nil
	}

	sb := sqlbuilder.Select(cardColumns)
	sb.From("cards")
	sb.Join("categories", "cards.category_id = categories.id")

	idArgs := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		idArgs = append(idArgs, id)
	}
	sb.Where(sb.In("cards.id", idArgs...))

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching cards by ID: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cardMap := make(map[int64]domain.Card, len(ids))
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cardMap[card.ID] = card
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	// Results follow the order of the input IDs.
	cards := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		if card, exists := cardMap[id]; exists {
			cards = append(cards, card)
		}
	}

	return cards, nil
}

func (r *Repository) TotalMatchingCards(ctx context.Context, filters domain.CardFilters) (int64, error) {
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("cards")

	conds := buildCardConditions(sb, filters)
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	query, args := sb.Build()

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting matching cards: %w", err)
	}
	return count, nil
}

func (r *Repository) CreateCard(ctx context.Context, draft domain.NewCardDraft, slug string) (int64, error) {
	tags, err := encodeStringSlice(draft.Tags)
	if err != nil {
		return 0, err
	}

	ib := sqlbuilder.InsertInto("cards")
	ib.Cols(
		"title", "slug", "description", "tags", "category_id", "price",
		"is_premium", "owner_id", "moderation_status", "auto_moderation_score",
	)
	ib.Values(
		draft.Title, slug, draft.Description, tags, draft.CategoryID, draft.Price,
		draft.IsPremium, draft.OwnerID, string(domain.ModerationStatusPending), 0,
	)

	query, args := ib.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted card ID: %w", err)
	}
	return id, nil
}

func (r *Repository) ToggleCardLike(
	ctx context.Context, userID string, cardID int64,
) (bool, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM card_likes WHERE user_id = ? AND card_id = ?",
		userID, cardID,
	).Scan(&existing)

	var liked bool
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO card_likes (user_id, card_id) VALUES (?, ?)",
			userID, cardID,
		); err != nil {
			return false, 0, fmt.Errorf("inserting like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE cards SET likes_count = likes_count + 1 WHERE id = ?",
			cardID,
		); err != nil {
			return false, 0, fmt.Errorf("incrementing likes count: %w", err)
		}
		liked = true
	case err != nil:
		return false, 0, fmt.Errorf("checking existing like: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM card_likes WHERE id = ?", existing,
		); err != nil {
			return false, 0, fmt.Errorf("deleting like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE cards SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = ?",
			cardID,
		); err != nil {
			return false, 0, fmt.Errorf("decrementing likes count: %w", err)
		}
	}

	var likesCount int64
	err = tx.QueryRowContext(ctx,
		"SELECT likes_count FROM cards WHERE id = ?", cardID,
	).Scan(&likesCount)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, domain.ErrCardNotFound
	}
	if err != nil {
		return false, 0, fmt.Errorf("reading likes count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("committing transaction: %w", err)
	}

	return liked, likesCount, nil
}

func (r *Repository) IncrementCardViews(ctx context.Context, cardID int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE cards SET views_count = views_count + 1 WHERE id = ?", cardID,
	); err != nil {
		return fmt.Errorf("incrementing views count: %w", err)
	}
	return nil
}

func buildCardConditions(sb *sqlbuilder.SelectBuilder, filters domain.CardFilters) []string {
	var conds []string

	if filters.OnlyApproved {
		conds = append(conds, sb.Equal("cards.moderation_status", string(domain.ModerationStatusApproved)))
	}

	if filters.TitleFulltext != "" {
		conds = append(conds, "MATCH (cards.title) AGAINST ("+sb.Args.Add(filters.TitleFulltext)+")")
	}

	if len(filters.CategoryIDs) > 0 {
		ids := make([]interface{}, 0, len(filters.CategoryIDs))
		for _, id := range filters.CategoryIDs {
			ids = append(ids, id)
		}
		conds = append(conds, sb.In("cards.category_id", ids...))
	}

	if len(filters.Tags) > 0 {
		tagConds := make([]string, 0, len(filters.Tags))
		for _, tag := range filters.Tags {
			tagConds = append(tagConds, "JSON_CONTAINS(cards.tags, JSON_QUOTE("+sb.Args.Add(tag)+"))")
		}
		conds = append(conds, sb.Or(tagConds...))
	}

	if filters.PriceMin != nil {
		conds = append(conds, sb.GreaterEqualThan("cards.price", *filters.PriceMin))
	}

	if filters.PriceMax != nil {
		conds = append(conds, sb.LessEqualThan("cards.price", *filters.PriceMax))
	}

	return conds
}

func buildCardOrder(options domain.CardListOptions) ([]string, error) {
	if len(options.Ordering) == 0 {
		return []string{"cards.created_at DESC"}, nil
	}

	var orderings []string
	for _, ordering := range options.Ordering {
		var col string
		switch ordering.Field {
		case domain.CardOrderingFieldCreatedAt:
			col = "cards.created_at"
		case domain.CardOrderingFieldPrice:
			col = "cards.price"
		case domain.CardOrderingFieldLikes:
			col = "cards.likes_count"
		case domain.CardOrderingFieldViews:
			col = "cards.views_count"
		case domain.CardOrderingFieldTitle:
			col = "cards.title"
		default:
			return nil, fmt.Errorf("unknown ordering field: %s", ordering.Field)
		}

		if ordering.Desc {
			col += " DESC"
		}
		orderings = append(orderings, col)
	}

	return orderings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (domain.Card, error) {
	var card domain.Card
	var tags sql.NullString
	var status string

	if err := row.Scan(
		&card.ID,
		&card.Title,
		&card.Slug,
		&card.Description,
		&tags,
		&card.CategoryID,
		&card.CategoryName,
		&card.Price,
		&card.IsPremium,
		&card.ViewsCount,
		&card.LikesCount,
		&status,
		&card.AutoModerationScore,
		&card.OwnerID,
		&card.CreatedAt,
	); err != nil {
		return domain.Card{}, fmt.Errorf("scanning card: %w", err)
	}

	decoded, err := decodeStringSlice(tags)
	if err != nil {
		return domain.Card{}, err
	}
	card.Tags = decoded
	card.ModerationStatus = domain.ModerationStatus(status)

	return card, nil
}
