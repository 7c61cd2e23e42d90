// Package local provides an offline vision client for development
// environments without provider credentials. Selected via ai.provider:
// local.
package local

import (
	"context"

	"github.com/glowlab/skinsight/internal/domain/vision"
)

type Client struct{}

func NewClient() *Client { return &Client{} }

// Analyze returns a canned, contract-conforming result.
func (c *Client) Analyze(ctx context.Context, imageURLs []string) (*vision.Result, error) {
	if len(imageURLs) != vision.RequiredImages {
		return nil, vision.ErrInvalidImageCount
	}
	confidence := 72.0
	return &vision.Result{
		SkinType:       vision.SkinTypeCombination,
		Confidence:     &confidence,
		PrimaryConcern: "Uneven hydration",
		Traits: []vision.Trait{
			{
				ID:          "dryness",
				Name:        "Dryness",
				Description: "Flaking visible around the cheeks in the angled photos.",
				Severity:    vision.SeverityModerate,
			},
			{
				ID:          "enlarged_pores",
				Name:        "Enlarged pores",
				Description: "Pores visible across the T-zone in the front photo.",
				Severity:    vision.SeverityLow,
			},
		},
		Notes:        []string{"Use a gentle hydrating cleanser", "Apply moisturizer twice daily"},
		ModelVersion: "local-dev",
	}, nil
}
