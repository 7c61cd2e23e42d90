package vision

import "context"

// Client port for the external multimodal model. Analyze accepts exactly
// three signed image URLs and returns a contract-validated result.
type Client interface {
	Analyze(ctx context.Context, imageURLs []string) (*Result, error)
}
