package youtube

import "fmt"

// FetchError represents a failed upstream API call: transport failure,
// non-success status code, or an unusable response body. A fetch never
// partially succeeds; on FetchError no records were returned.
type FetchError struct {
	// StatusCode is the upstream HTTP status, or 0 when the call never
	// produced a response (transport error, timeout).
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("youtube fetch failed: %s", e.Message)
	}
	return fmt.Sprintf("youtube fetch failed (status %d): %s", e.StatusCode, e.Message)
}
