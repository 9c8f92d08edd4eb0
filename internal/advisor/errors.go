package advisor

import "fmt"

// RequestError represents a caller-supplied request the advisor cannot evaluate
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("request error: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
