package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// ModerationInput is the textual content of a card as seen by the
// auto-moderation scorer.
type ModerationInput struct {
	Title       string
	Description string
	Tags        []string
}

// ModerationRecommendation is the scorer's verdict on a piece of content.
type ModerationRecommendation string

const (
	RecommendationApprove ModerationRecommendation = "approve"
	RecommendationReject  ModerationRecommendation = "reject"
	RecommendationReview  ModerationRecommendation = "review"
)

// ModerationResult is the output of a scoring pass.
type ModerationResult struct {
	Score          float64                  `json:"score"`
	Flags          []string                 `json:"flags"`
	Recommendation ModerationRecommendation `json:"recommendation"`
}

// Approved reports whether the content cleared automatic moderation outright.
func (r ModerationResult) Approved() bool {
	return r.Recommendation == RecommendationApprove
}

// Scoring runs on a 0-100 scale. Content starts at a perfect score and
// accumulates fixed penalties per triggered rule.
const (
	ModerationMaxScore         = 100.0
	ModerationApproveThreshold = 80.0
	ModerationRejectThreshold  = 40.0

	// Auto-approval also requires fewer than this many flags, however the
	// score came out.
	moderationMaxApproveFlags = 3
)

var bannedKeywords = []string{
	"spam", "fake", "scam", "fraud", "hack", "illegal",
	"piracy", "crack", "adult", "nsfw", "casino", "gambling",
}

var externalLinkPattern = regexp.MustCompile(`https?://`)

const (
	penaltyBannedKeyword       = 30.0
	penaltyTooManyLinks        = 15.0
	penaltyTitleTooShort       = 10.0
	penaltyTitleTooLong        = 5.0
	penaltyDescriptionTooShort = 15.0
	penaltyExcessiveCaps       = 20.0
	penaltyRepeatedCharacters  = 10.0
	penaltyTooManyTags         = 10.0

	minTitleLength       = 10
	maxTitleLength       = 100
	minDescriptionLength = 50
	maxExternalLinks     = 5
	maxTags              = 10
	capsRatioLimit       = 0.5
	repeatedRunLength    = 6
)

// ModerateContent evaluates card content against the moderation rule set.
// It is a pure function: same input, same result.
func ModerateContent(input ModerationInput) ModerationResult {
	score := ModerationMaxScore
	var flags []string

	content := strings.ToLower(input.Title + " " + input.Description + " " + strings.Join(input.Tags, " "))
	for _, keyword := range bannedKeywords {
		if strings.Contains(content, keyword) {
			score -= penaltyBannedKeyword
			flags = append(flags, "inappropriate_content_"+keyword)
		}
	}

	if len(externalLinkPattern.FindAllStringIndex(input.Description, -1)) > maxExternalLinks {
		score -= penaltyTooManyLinks
		flags = append(flags, "too_many_links")
	}

	if len(input.Title) < minTitleLength {
		score -= penaltyTitleTooShort
		flags = append(flags, "title_too_short")
	}
	if len(input.Title) > maxTitleLength {
		score -= penaltyTitleTooLong
		flags = append(flags, "title_too_long")
	}

	if len(input.Description) < minDescriptionLength {
		score -= penaltyDescriptionTooShort
		flags = append(flags, "description_too_short")
	}

	if uppercaseRatio(input.Title) > capsRatioLimit {
		score -= penaltyExcessiveCaps
		flags = append(flags, "excessive_caps")
	}

	if longestRun(input.Description) >= repeatedRunLength || longestRun(input.Title) >= repeatedRunLength {
		score -= penaltyRepeatedCharacters
		flags = append(flags, "repeated_characters")
	}

	if len(input.Tags) > maxTags {
		score -= penaltyTooManyTags
		flags = append(flags, "too_many_tags")
	}

	if score < 0 {
		score = 0
	}
	if score > ModerationMaxScore {
		score = ModerationMaxScore
	}

	return ModerationResult{
		Score:          score,
		Flags:          flags,
		Recommendation: classify(score, len(flags)),
	}
}

func classify(score float64, flagCount int) ModerationRecommendation {
	switch {
	case score >= ModerationApproveThreshold && flagCount < moderationMaxApproveFlags:
		return RecommendationApprove
	case score < ModerationRejectThreshold:
		return RecommendationReject
	default:
		return RecommendationReview
	}
}

func uppercaseRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	upper := 0
	total := 0
	for _, r := range s {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

// longestRun returns the length of the longest run of one repeated rune.
func longestRun(s string) int {
	var prev rune
	run, longest := 0, 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
