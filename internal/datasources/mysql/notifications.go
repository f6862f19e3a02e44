package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/toolgrove/marketplace/internal/domain"
)

func (r *Repository) CreateNotification(
	ctx context.Context, notification domain.NewNotification,
) (int64, error) {
	metadata := notification.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	encodedMetadata, err := json.Marshal(metadata)
	if err != nil {
		return 0, fmt.Errorf("encoding notification metadata: %w", err)
	}

	var actionURL sql.NullString
	if notification.ActionURL != "" {
		actionURL = sql.NullString{String: notification.ActionURL, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, type, action_url, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		notification.UserID, notification.Title, notification.Message,
		string(notification.Type), actionURL, string(encodedMetadata),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted notification ID: %w", err)
	}
	return id, nil
}

func (r *Repository) ListNotifications(
	ctx context.Context, userID string, page, pageSize int,
) ([]domain.Notification, int64, error) {
	limit, offset := paginationToLimitOffset(page, pageSize)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, message, type, is_read, action_url, metadata,
			created_at, read_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var nType string
		var actionURL, metadata sql.NullString
		var readAt sql.NullTime

		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &nType, &n.IsRead,
			&actionURL, &metadata, &n.CreatedAt, &readAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning notification: %w", err)
		}

		n.Type = domain.NotificationType(nType)
		if actionURL.Valid {
			n.ActionURL = actionURL.String
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &n.Metadata); err != nil {
				return nil, 0, fmt.Errorf("decoding notification metadata: %w", err)
			}
			if len(n.Metadata) == 0 {
				n.Metadata = nil
			}
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}

		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ?", userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *Repository) MarkNotificationRead(
	ctx context.Context, userID string, notificationID int64,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = ? AND user_id = ? AND is_read = FALSE`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		// Either the notification doesn't exist for this user or it was
		// already read. Distinguish so repeat reads stay idempotent.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ? AND user_id = ?)",
			notificationID, userID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking notification existence: %w", err)
		}
		if !exists {
			return domain.ErrNotificationNotFound
		}
	}
	return nil
}

func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE user_id = ? AND is_read = FALSE`,
		userID,
	); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

func (r *Repository) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE",
		userID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}
