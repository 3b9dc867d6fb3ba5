package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satchel-tui/satchel/internal/api"
)

func TestDeckTags_DistinctAcrossCards(t *testing.T) {
	deck := api.Deck{Cards: []api.Card{
		{Tags: []string{"verbs", "Basics"}},
		{Tags: []string{"basics", "food"}},
		{Tags: nil},
	}}

	assert.Equal(t, []string{"verbs", "Basics", "food"}, deckTags(deck))
}

func TestRatingLabel(t *testing.T) {
	assert.Equal(t, "unrated", ratingLabel(api.Deck{}))
	assert.Equal(t, "4.5★ (12)", ratingLabel(api.Deck{RatingAvg: 4.5, RatingCount: 12}))
}

func TestScoreLabel(t *testing.T) {
	got := scoreLabel(api.TestResult{Score: 7, Total: 10, Percentage: 70})
	assert.Equal(t, "7/10 (70%)", got)
}
