package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyDelimiter separates the components of a cache key. It is not
// expected to occur inside identifiers, entity names, or page numbers.
const KeyDelimiter = "|"

// BuildKey joins the given parts into a deterministic cache key.
// Parts that are nil or blank strings (after trimming) are dropped;
// zero values that carry meaning (0, false) are kept.
//
// Example:
//
//	BuildKey("skills", nil, " u42 ", 1, false) == "skills|u42|1|false"
func BuildKey(parts ...any) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			continue
		}
		s, ok := part.(string)
		if !ok {
			s = fmt.Sprint(part)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, KeyDelimiter)
}

// RequestKey builds the cache key for an HTTP response, scoped by user
// and normalized query parameters.
//
// Any query string already embedded in path is stripped; a non-empty
// userID is prefixed as "u:<userID>|"; query keys are sorted so that
// two requests describing the same logical listing always map to the
// same key, regardless of parameter order. Keys with no values are
// dropped. Write-time invalidation relies on this determinism.
//
// Example:
//
//	RequestKey("user123", "/api/test", url.Values{"z": {"last"}, "a": {"first"}})
//	// "u:user123|/api/test?a=first&z=last"
func RequestKey(userID, path string, query url.Values) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	var b strings.Builder
	if userID != "" {
		b.WriteString("u:")
		b.WriteString(userID)
		b.WriteString(KeyDelimiter)
	}
	b.WriteString(path)

	if len(query) > 0 {
		keys := make([]string, 0, len(query))
		for key, values := range query {
			if len(values) == 0 {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, key+"="+query.Get(key))
		}
		if len(pairs) > 0 {
			b.WriteByte('?')
			b.WriteString(strings.Join(pairs, "&"))
		}
	}

	return b.String()
}
