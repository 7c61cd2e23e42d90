package vision

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidImageCount indicates the caller did not supply exactly three
// image URLs. Input error, never retried.
var ErrInvalidImageCount = errors.New("vision: exactly three image urls are required")

// ErrUnavailable indicates the provider kept failing transiently until the
// retry budget ran out.
var ErrUnavailable = errors.New("vision: analysis service unavailable")

// MalformedOutputError means the model reply was not parseable JSON.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("vision: malformed model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// ContractError means the parsed reply violated the output contract. The
// violations are diagnostic detail for operators, not for end users.
type ContractError struct {
	Violations []string
}

func (e *ContractError) Error() string {
	return "vision: output contract violated: " + strings.Join(e.Violations, "; ")
}
