package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/toolgrove/marketplace/internal/domain"
)

func (r *Repository) ApplyAutoModeration(
	ctx context.Context,
	cardID int64,
	submittedBy string,
	result domain.ModerationResult,
) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM cards WHERE id = ?", cardID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrCardNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("checking card: %w", err)
	}

	cardStatus := domain.ModerationStatusPending
	if result.Approved() {
		cardStatus = domain.ModerationStatusApproved
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE cards SET moderation_status = ?, auto_moderation_score = ? WHERE id = ?",
		string(cardStatus), result.Score, cardID,
	); err != nil {
		return 0, fmt.Errorf("updating card moderation status: %w", err)
	}

	var entryID int64
	if !result.Approved() {
		entryID, err = r.ensureOpenQueueEntry(ctx, tx, cardID, submittedBy, result)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return entryID, nil
}

// ensureOpenQueueEntry inserts a queue entry unless the card already has an
// open (pending or needs_review) one.
func (r *Repository) ensureOpenQueueEntry(
	ctx context.Context,
	tx *sql.Tx,
	cardID int64,
	submittedBy string,
	result domain.ModerationResult,
) (int64, error) {
	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM moderation_queue WHERE card_id = ? AND status IN (?, ?)",
		cardID,
		string(domain.ModerationStatusPending),
		string(domain.ModerationStatusNeedsReview),
	).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("checking open queue entry: %w", err)
	}

	flags, err := encodeStringSlice(result.Flags)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO moderation_queue
			(card_id, submitted_by, status, auto_moderation_score, flags, version)
		VALUES (?, ?, ?, ?, ?, 1)`,
		cardID, submittedBy, string(domain.ModerationStatusPending), result.Score, flags,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting queue entry: %w", err)
	}

	entryID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted queue entry ID: %w", err)
	}
	return entryID, nil
}

func (r *Repository) GetQueueEntryByCard(
	ctx context.Context, cardID int64,
) (domain.ModerationQueueEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT mq.id, mq.card_id, mq.submitted_by, mq.status,
			mq.auto_moderation_score, mq.flags, mq.reviewer_id, mq.review_notes,
			mq.version, mq.created_at, mq.reviewed_at,
			cards.title, cards.description, cards.tags
		FROM moderation_queue mq
		JOIN cards ON mq.card_id = cards.id
		WHERE mq.card_id = ?
		ORDER BY mq.created_at DESC
		LIMIT 1`,
		cardID,
	)

	entry, err := scanQueueEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ModerationQueueEntry{}, domain.ErrQueueEntryNotFound
	}
	if err != nil {
		return domain.ModerationQueueEntry{}, err
	}
	return entry, nil
}

func (r *Repository) ApplyReview(
	ctx context.Context,
	entryID int64,
	status domain.ModerationStatus,
	reviewerID string,
	notes string,
	expectedVersion int64,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Keyed on the entry ID: a resubmitted card has older, settled entries
	// for the same card_id that a review must never touch.
	var cardID int64
	err = tx.QueryRowContext(ctx,
		"SELECT card_id FROM moderation_queue WHERE id = ?", entryID,
	).Scan(&cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrQueueEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("checking queue entry: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE moderation_queue
		SET status = ?, reviewer_id = ?, review_notes = ?, reviewed_at = NOW(),
			version = version + 1
		WHERE id = ? AND version = ?`,
		string(status), reviewerID, notes, entryID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating queue entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrReviewConflict
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE cards SET moderation_status = ? WHERE id = ?",
		string(status), cardID,
	); err != nil {
		return fmt.Errorf("mirroring status onto card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *Repository) ListModerationQueue(
	ctx context.Context,
	filters domain.ModerationQueueFilters,
	page, pageSize int,
) ([]domain.ModerationQueueEntry, int64, error) {
	sb := sqlbuilder.Select(
		`mq.id, mq.card_id, mq.submitted_by, mq.status,
		mq.auto_moderation_score, mq.flags, mq.reviewer_id, mq.review_notes,
		mq.version, mq.created_at, mq.reviewed_at,
		cards.title, cards.description, cards.tags`,
	)
	sb.From("moderation_queue mq")
	sb.Join("cards", "mq.card_id = cards.id")

	if filters.Status != nil {
		sb.Where(sb.Equal("mq.status", string(*filters.Status)))
	}

	// Oldest submissions first so reviewers drain the backlog in order.
	sb.OrderBy("mq.created_at ASC")
	limit, offset := paginationToLimitOffset(page, pageSize)
	sb.Offset(offset)
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("running moderation queue query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.ModerationQueueEntry{}
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	countSB := sqlbuilder.Select("COUNT(*)")
	countSB.From("moderation_queue mq")
	if filters.Status != nil {
		countSB.Where(countSB.Equal("mq.status", string(*filters.Status)))
	}

	countQuery, countArgs := countSB.Build()
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting moderation queue: %w", err)
	}

	return entries, total, nil
}

func (r *Repository) GetModerationStats(ctx context.Context) (domain.ModerationStats, error) {
	var stats domain.ModerationStats

	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(CASE WHEN status = 'pending' THEN 1 END),
			COUNT(CASE WHEN status = 'approved' THEN 1 END),
			COUNT(CASE WHEN status = 'rejected' THEN 1 END),
			COUNT(CASE WHEN status = 'needs_review' THEN 1 END),
			COALESCE(AVG(TIMESTAMPDIFF(SECOND, created_at, reviewed_at)) / 3600, 0)
		FROM moderation_queue`,
	).Scan(&stats.Pending, &stats.Approved, &stats.Rejected, &stats.NeedsReview, &stats.AvgHours)
	if err != nil {
		return domain.ModerationStats{}, fmt.Errorf("aggregating moderation stats: %w", err)
	}

	return stats, nil
}

func scanQueueEntry(row rowScanner) (domain.ModerationQueueEntry, error) {
	var entry domain.ModerationQueueEntry
	var status string
	var flags, cardTags sql.NullString
	var reviewerID, reviewNotes sql.NullString
	var reviewedAt sql.NullTime

	if err := row.Scan(
		&entry.ID,
		&entry.CardID,
		&entry.SubmittedBy,
		&status,
		&entry.Score,
		&flags,
		&reviewerID,
		&reviewNotes,
		&entry.Version,
		&entry.CreatedAt,
		&reviewedAt,
		&entry.CardTitle,
		&entry.CardDescription,
		&cardTags,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ModerationQueueEntry{}, err
		}
		return domain.ModerationQueueEntry{}, fmt.Errorf("scanning queue entry: %w", err)
	}

	entry.Status = domain.ModerationStatus(status)

	decodedFlags, err := decodeStringSlice(flags)
	if err != nil {
		return domain.ModerationQueueEntry{}, err
	}
	entry.Flags = decodedFlags

	decodedTags, err := decodeStringSlice(cardTags)
	if err != nil {
		return domain.ModerationQueueEntry{}, err
	}
	entry.CardTags = decodedTags

	if reviewerID.Valid {
		entry.ReviewerID = &reviewerID.String
	}
	if reviewNotes.Valid {
		entry.ReviewNotes = &reviewNotes.String
	}
	if reviewedAt.Valid {
		entry.ReviewedAt = &reviewedAt.Time
	}

	return entry, nil
}
