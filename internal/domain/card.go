package domain

import (
	"errors"
	"time"
)

var ErrCardNotFound = errors.New("card not found")

type Card struct {
	ID                  int64            `json:"id"`
	Title               string           `json:"title"`
	Slug                string           `json:"slug"`
	Description         string           `json:"description"`
	Tags                []string         `json:"tags"`
	CategoryID          int64            `json:"category_id"`
	CategoryName        string           `json:"category"`
	Price               float64          `json:"price"`
	IsPremium           bool             `json:"is_premium"`
	ViewsCount          int64            `json:"views_count"`
	LikesCount          int64            `json:"likes_count"`
	ModerationStatus    ModerationStatus `json:"moderation_status"`
	AutoModerationScore float64          `json:"auto_moderation_score"`
	OwnerID             string           `json:"owner_id"`
	CreatedAt           time.Time        `json:"created_at"`
}

type CardFilters struct {
	TitleFulltext string
	CategoryIDs   []int64
	Tags          []string
	PriceMin      *float64
	PriceMax      *float64
	// OnlyApproved restricts results to cards that passed moderation.
	// Public listing endpoints always set it.
	OnlyApproved bool
}

type CardListOptions struct {
	Ordering       []CardOrdering
	Page, PageSize int
}

type CardOrdering struct {
	Field CardOrderingField
	Desc  bool
}

type CardOrderingField string

const CardOrderingFieldCreatedAt CardOrderingField = "created_at"
const CardOrderingFieldPrice CardOrderingField = "price"
const CardOrderingFieldLikes CardOrderingField = "likes_count"
const CardOrderingFieldViews CardOrderingField = "views_count"
const CardOrderingFieldTitle CardOrderingField = "title"

var ValidCardOrderingFields = []CardOrderingField{
	CardOrderingFieldCreatedAt,
	CardOrderingFieldPrice,
	CardOrderingFieldLikes,
	CardOrderingFieldViews,
	CardOrderingFieldTitle,
}

// NewCardDraft is the owner-supplied portion of a card before moderation.
type NewCardDraft struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  int64
	Price       float64
	IsPremium   bool
	OwnerID     string
}
