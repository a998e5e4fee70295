package retry

import "strings"

// transientMarkers are the substrings that mark a failure as worth
// retrying. Matching is case-insensitive against the failure's text.
var transientMarkers = []string{
	"timeout",
	"timed out",
	"connection",
	"connectionerror",
	"connectorerror",
	"econnreset",
	"econnrefused",
}

// FailureText extracts the diagnostic text of a failure. A nil error has
// no text.
func FailureText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Transient reports whether a failure is likely to succeed on retry.
// Failures with empty text are never transient; anything whose lower-cased
// text contains a transient marker is.
func Transient(err error) bool {
	text := strings.ToLower(FailureText(err))
	if text == "" {
		return false
	}
	for _, marker := range transientMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
