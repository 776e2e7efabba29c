package memberapi

import "fmt"

// APIError is returned by the client when the service answers with a
// non-2xx status. It carries the parsed error envelope.
type APIError struct {
	StatusCode int
	Message    string
	Errors     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("memberapi: %d %s", e.StatusCode, e.Message)
}
