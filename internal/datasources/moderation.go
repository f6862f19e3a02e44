package datasources

import (
	"context"

	"github.com/toolgrove/marketplace/internal/domain"
)

// ModerationResultApplier persists the outcome of an auto-moderation pass:
// card status and score are updated and, when the content did not auto-pass
// and no open queue entry exists yet, a queue entry is inserted. All writes
// happen in one transaction. Returns the ID of the open queue entry, or zero
// when the card auto-passed.
type ModerationResultApplier interface {
	ApplyAutoModeration(
		ctx context.Context,
		cardID int64,
		submittedBy string,
		result domain.ModerationResult,
	) (queueEntryID int64, err error)
}

// QueueEntryByCardGetter fetches the moderation queue entry for a card.
type QueueEntryByCardGetter interface {
	GetQueueEntryByCard(ctx context.Context, cardID int64) (domain.ModerationQueueEntry, error)
}

// ReviewApplier applies a reviewer transition to a queue entry and mirrors
// the status onto the card row in one transaction. The write is keyed on the
// entry ID, so a resubmitted card's earlier, settled entries stay untouched,
// and guarded by the entry's version; domain.ErrReviewConflict is returned
// when another reviewer got there first.
type ReviewApplier interface {
	ApplyReview(
		ctx context.Context,
		entryID int64,
		status domain.ModerationStatus,
		reviewerID string,
		notes string,
		expectedVersion int64,
	) error
}

// ModerationQueueLister lists queue entries joined with their card summary,
// oldest first.
type ModerationQueueLister interface {
	ListModerationQueue(
		ctx context.Context,
		filters domain.ModerationQueueFilters,
		page, pageSize int,
	) ([]domain.ModerationQueueEntry, int64, error)
}

// ModerationStatsGetter aggregates queue counts and review latency.
type ModerationStatsGetter interface {
	GetModerationStats(ctx context.Context) (domain.ModerationStats, error)
}

// ModerationRepository combines all moderation persistence operations.
type ModerationRepository interface {
	ModerationResultApplier
	QueueEntryByCardGetter
	ReviewApplier
	ModerationQueueLister
	ModerationStatsGetter
}
