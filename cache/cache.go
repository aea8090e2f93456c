// Package cache lets clients revalidate public reads with ETags instead of
// downloading unchanged listings again.
package cache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Tag returns the strong entity tag for a response body.
func Tag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// Matches reports whether an If-None-Match header value covers tag. Weak
// validators compare equal to their strong form.
func Matches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
