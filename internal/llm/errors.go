package llm

import "fmt"

// APIError represents a provider-reported failure: a non-success HTTP status
// or an error field in an otherwise successful response body.
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ExhaustedRetriesError is returned once the fixed retry budget is spent.
// LastErr carries the error from the final attempt.
type ExhaustedRetriesError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("exhausted %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}
