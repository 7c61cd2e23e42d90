package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequiredImages is the number of capture angles one analysis consumes.
const RequiredImages = 3

// Severity enum
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// SkinType enum as produced by the model
type SkinType string

const (
	SkinTypeDry         SkinType = "Dry"
	SkinTypeOily        SkinType = "Oily"
	SkinTypeCombination SkinType = "Combination"
	SkinTypeNormal      SkinType = "Normal"
	SkinTypeSensitive   SkinType = "Sensitive"
)

// Trait is one detected skin concern. The id is expected to be one of the
// recognized category keys but is not closed-set validated; only the basic
// fields are required.
type Trait struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Severity    Severity `json:"severity" validate:"required,oneof=low moderate high"`
}

// Result is the validated output contract of the vision model.
type Result struct {
	SkinType       SkinType `json:"skinType" validate:"required,oneof=Dry Oily Combination Normal Sensitive"`
	Confidence     *float64 `json:"confidence" validate:"required,gte=0,lte=100"`
	PrimaryConcern string   `json:"primaryConcern" validate:"required"`
	Traits         []Trait  `json:"traits" validate:"required,min=1,dive"`
	Notes          []string `json:"notes"`
	ModelVersion   string   `json:"modelVersion" validate:"required"`
}

var validate = validator.New()

// Parse decodes the raw model reply and validates it against the output
// contract. A decode failure yields MalformedOutputError; a contract failure
// yields ContractError naming the violated fields. Both are non-retryable.
func Parse(raw string) (*Result, error) {
	var res Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &res); err != nil {
		return nil, &MalformedOutputError{Err: err}
	}
	if err := validate.Struct(&res); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("validating model output: %w", err)
		}
		ce := &ContractError{}
		for _, fe := range verrs {
			ce.Violations = append(ce.Violations,
				fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return nil, ce
	}
	if res.Notes == nil {
		res.Notes = []string{}
	}
	return &res, nil
}
