package logging

import (
	"reflect"
	"regexp"
	"strings"
)

const (
	// maxSanitizeDepth bounds recursion into nested metadata. Values below
	// the cap are returned unmodified, which also breaks reference cycles
	// once the path length exceeds the cap.
	maxSanitizeDepth = 10

	// maxStringLength is the threshold above which string values are
	// truncated.
	maxStringLength = 1000

	// truncationMarker is appended to truncated string values.
	truncationMarker = "... [TRUNCATED]"

	// redactedPlaceholder replaces any value attached to a sensitive key.
	redactedPlaceholder = "[REDACTED]"
)

// sensitiveFields is matched as literal substrings against the lower-cased
// form of every metadata key. The comparison itself is case-sensitive, so
// entries that are not fully lower-case (apiKey, privateKey) never match a
// lower-cased key and are effectively inert.
// TODO: confirm with product whether apiKey/privateKey should be lower-cased
// here; keys named exactly "apikey" or "privatekey" currently escape
// redaction unless they also contain one of the lower-case entries.
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"apiKey",
	"privateKey",
}

// Message patterns are applied in order. The bearer pattern captures the
// keyword so its original casing survives the substitution; the token and
// password forms are normalized to key=[REDACTED].
var (
	bearerPattern   = regexp.MustCompile(`(?i)(bearer)\s+\S+`)
	tokenPattern    = regexp.MustCompile(`(?i)token[:=]\s*\S+`)
	passwordPattern = regexp.MustCompile(`(?i)password[:=]\s*\S+`)
)

// SanitizeMessage scrubs credential material from a free-text log message.
// Matching on the keywords is case-insensitive.
func SanitizeMessage(msg string) string {
	msg = bearerPattern.ReplaceAllString(msg, "$1 "+redactedPlaceholder)
	msg = tokenPattern.ReplaceAllString(msg, "token="+redactedPlaceholder)
	msg = passwordPattern.ReplaceAllString(msg, "password="+redactedPlaceholder)
	return msg
}

// Sanitize returns a copy of value safe to hand to a log sink. Values under
// keys matching the sensitive-field set are replaced wholesale with the
// redaction placeholder; long strings are truncated; nesting beyond the
// depth cap passes through unchanged. The input is never mutated.
func Sanitize(value any) any {
	return sanitizeValue(value, 0)
}

func sanitizeValue(value any, depth int) any {
	if depth > maxSanitizeDepth {
		return value
	}

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return truncateString(v)
	case error:
		return truncateString(SanitizeMessage(v.Error()))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if isSensitiveKey(key) {
				out[key] = redactedPlaceholder
			} else {
				out[key] = sanitizeValue(val, depth+1)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = sanitizeValue(elem, depth+1)
		}
		return out
	default:
		return sanitizeReflected(value, depth)
	}
}

// sanitizeReflected handles maps and sequences that are not the common
// map[string]any / []any shapes. Scalars and structs pass through unchanged.
func sanitizeReflected(value any, depth int) any {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if isSensitiveKey(key) {
				out[key] = redactedPlaceholder
			} else {
				out[key] = sanitizeValue(iter.Value().Interface(), depth+1)
			}
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i).Interface(), depth+1)
		}
		return out
	default:
		return value
	}
}

// isSensitiveKey reports whether the lower-cased key name contains one of
// the sensitive-field entries as a literal substring.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// truncateString caps oversized strings with a visible marker. Truncation is
// a fixed point: re-truncating a truncated string yields the same output.
func truncateString(s string) string {
	if len(s) <= maxStringLength {
		return s
	}
	return s[:maxStringLength] + truncationMarker
}
