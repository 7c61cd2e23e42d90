package analysis

import (
	"time"

	domain "github.com/glowlab/skinsight/internal/domain/analysis"
	"github.com/glowlab/skinsight/internal/domain/vision"
)

// Summary is the dashboard-ready projection of a completed record.
type Summary struct {
	OwnerID        string        `json:"owner_id"`
	SkinType       string        `json:"skin_type"`
	Confidence     float64       `json:"confidence"`
	PrimaryConcern string        `json:"primary_concern"`
	Series         []SeriesPoint `json:"series"`
	Notes          []string      `json:"notes"`
	ModelVersion   string        `json:"model_version"`
}

// SeriesPoint holds the three fixed trait channels for one analysis. Each
// analysis is its own isolated snapshot; multi-point trending is not
// supported yet.
type SeriesPoint struct {
	Date         time.Time `json:"date"`
	Acne         int       `json:"acne"`
	Dryness      int       `json:"dryness"`
	Pigmentation int       `json:"pigmentation"`
}

var skinTypeLabels = map[string]string{
	string(vision.SkinTypeDry):         "dry",
	string(vision.SkinTypeOily):        "oily",
	string(vision.SkinTypeCombination): "combination",
	string(vision.SkinTypeNormal):      "normal",
	string(vision.SkinTypeSensitive):   "sensitive",
}

var severityScores = map[vision.Severity]int{
	vision.SeverityLow:      25,
	vision.SeverityModerate: 55,
	vision.SeverityHigh:     85,
}

// BuildSummary is a pure transformation from a completed record to its
// summary: skin-type lookup, confidence rescaled to [0,1], fixed channels
// extracted by trait id with score 0 when absent.
func BuildSummary(rec *domain.Record) *Summary {
	skinType, ok := skinTypeLabels[rec.SkinType]
	if !ok {
		skinType = "normal"
	}

	var confidence float64
	if rec.Confidence != nil {
		confidence = *rec.Confidence / 100
	}

	at := rec.CreatedAt
	if rec.CompletedAt != nil {
		at = *rec.CompletedAt
	}

	point := SeriesPoint{
		Date:         at,
		Acne:         channelScore(rec.DetectedTraits, "acne"),
		Dryness:      channelScore(rec.DetectedTraits, "dryness"),
		Pigmentation: channelScore(rec.DetectedTraits, "hyperpigmentation"),
	}

	notes := rec.Notes
	if notes == nil {
		notes = []string{}
	}

	return &Summary{
		OwnerID:        rec.OwnerID,
		SkinType:       skinType,
		Confidence:     confidence,
		PrimaryConcern: rec.PrimaryConcern,
		Series:         []SeriesPoint{point},
		Notes:          notes,
		ModelVersion:   rec.ModelVersion,
	}
}

func channelScore(traits []vision.Trait, id string) int {
	for _, t := range traits {
		if t.ID == id {
			return severityScores[t.Severity]
		}
	}
	return 0
}
