package api

import "context"

// PathResolver provides methods for resolving API endpoint URLs.
// It abstracts the URL construction logic, allowing resources to build
// requests without knowing which base URL serves which backend.
type PathResolver interface {
	// endpoint returns the absolute URL for path on a backend.
	// Example: endpoint(Commerce, "/dashboard/taxes") -> "https://api.example.com/dashboard/taxes"
	endpoint(service Service, path string) string
}

// HTTPExecutor executes a single request. It resolves the bearer token,
// performs exactly one round trip and classifies failures into the error
// taxonomy. It never retries.
type HTTPExecutor interface {
	send(ctx context.Context, req request) (*response, error)
}

// Requester combines PathResolver and HTTPExecutor to provide
// the complete request surface used by resource helpers.
//
// Example usage in tests:
//
//	type recordingRequester struct{ calls []request }
//	func (r *recordingRequester) endpoint(s Service, p string) string { return "mock://" + p }
//	func (r *recordingRequester) send(ctx context.Context, req request) (*response, error) { ... }
type Requester interface {
	PathResolver
	HTTPExecutor
}
