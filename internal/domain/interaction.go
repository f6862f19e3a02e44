package domain

import "time"

// InteractionType is the kind of action a user took on a card.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionBookmark InteractionType = "bookmark"
	InteractionPurchase InteractionType = "purchase"
	InteractionShare    InteractionType = "share"
	InteractionDownload InteractionType = "download"
)

var ValidInteractionTypes = []InteractionType{
	InteractionView,
	InteractionLike,
	InteractionBookmark,
	InteractionPurchase,
	InteractionShare,
	InteractionDownload,
}

// StrongInteractionTypes are the interactions the similar-items strategy
// treats as a deliberate signal of interest.
var StrongInteractionTypes = []InteractionType{
	InteractionLike,
	InteractionBookmark,
	InteractionPurchase,
}

// UserInteraction is one row of the append-only interaction log.
type UserInteraction struct {
	UserID          string
	CardID          int64
	Type            InteractionType
	DurationSeconds *int64
	CreatedAt       time.Time
}
