package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/glowlab/skinsight/internal/domain/analysis"
	"github.com/glowlab/skinsight/internal/domain/vision"
)

func completedRecord(skinType string, confidence float64, traits []vision.Trait) *domain.Record {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	done := created.Add(20 * time.Second)
	return &domain.Record{
		ID:             "rec-1",
		OwnerID:        "owner-1",
		Status:         domain.StatusComplete,
		SkinType:       skinType,
		Confidence:     &confidence,
		PrimaryConcern: "Excess oil production",
		DetectedTraits: traits,
		Notes:          []string{"Use oil-free products"},
		ModelVersion:   "m1",
		CreatedAt:      created,
		CompletedAt:    &done,
	}
}

func TestBuildSummary_OilyWithNoChannelTraits(t *testing.T) {
	rec := completedRecord("Oily", 85, []vision.Trait{
		{ID: "oiliness", Name: "Oiliness", Severity: vision.SeverityHigh, Description: "Shine."},
	})

	s := BuildSummary(rec)

	assert.Equal(t, "owner-1", s.OwnerID)
	assert.Equal(t, "oily", s.SkinType)
	assert.Equal(t, 0.85, s.Confidence)
	assert.Equal(t, "Excess oil production", s.PrimaryConcern)
	require.Len(t, s.Series, 1)
	assert.Equal(t, 0, s.Series[0].Acne)
	assert.Equal(t, 0, s.Series[0].Dryness)
	assert.Equal(t, 0, s.Series[0].Pigmentation)
	assert.Equal(t, []string{"Use oil-free products"}, s.Notes)
	assert.Equal(t, "m1", s.ModelVersion)
	assert.Equal(t, *rec.CompletedAt, s.Series[0].Date)
}

func TestBuildSummary_SeverityScores(t *testing.T) {
	rec := completedRecord("Combination", 70, []vision.Trait{
		{ID: "acne", Name: "Acne", Severity: vision.SeverityHigh, Description: "d"},
		{ID: "dryness", Name: "Dryness", Severity: vision.SeverityModerate, Description: "d"},
		{ID: "hyperpigmentation", Name: "Hyperpigmentation", Severity: vision.SeverityLow, Description: "d"},
	})

	s := BuildSummary(rec)

	require.Len(t, s.Series, 1)
	assert.Equal(t, 85, s.Series[0].Acne)
	assert.Equal(t, 55, s.Series[0].Dryness)
	assert.Equal(t, 25, s.Series[0].Pigmentation)
}

func TestBuildSummary_SkinTypeLookup(t *testing.T) {
	cases := []struct {
		upstream string
		want     string
	}{
		{"Dry", "dry"},
		{"Oily", "oily"},
		{"Combination", "combination"},
		{"Normal", "normal"},
		{"Sensitive", "sensitive"},
		{"SuperOily", "normal"}, // defensive fallback
		{"", "normal"},
	}
	for _, tc := range cases {
		t.Run(tc.upstream, func(t *testing.T) {
			rec := completedRecord(tc.upstream, 50, []vision.Trait{
				{ID: "redness", Name: "Redness", Severity: vision.SeverityLow, Description: "d"},
			})
			assert.Equal(t, tc.want, BuildSummary(rec).SkinType)
		})
	}
}

func TestBuildSummary_ConfidenceRescaling(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{50, 0.5},
		{85, 0.85},
		{100, 1},
	}
	for _, tc := range cases {
		rec := completedRecord("Normal", tc.in, []vision.Trait{
			{ID: "redness", Name: "Redness", Severity: vision.SeverityLow, Description: "d"},
		})
		assert.Equal(t, tc.want, BuildSummary(rec).Confidence)
	}
}

func TestBuildSummary_NilNotesBecomeEmptySlice(t *testing.T) {
	rec := completedRecord("Normal", 50, []vision.Trait{
		{ID: "redness", Name: "Redness", Severity: vision.SeverityLow, Description: "d"},
	})
	rec.Notes = nil

	s := BuildSummary(rec)
	assert.NotNil(t, s.Notes)
	assert.Empty(t, s.Notes)
}
