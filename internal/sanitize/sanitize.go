// Package sanitize scrubs user-provided chat text before it is stored or
// echoed back. Chat messages are plain text: any markup a client smuggles in
// (script tags, event handlers, javascript: URLs) is stripped entirely with
// bluemonday's strict policy rather than escaped, so stored history stays
// safe to render in any frontend.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for stripping markup.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// StrictPolicy strips every element and attribute, leaving text only.
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from user input and normalizes surrounding whitespace.
// bluemonday escapes residual entities on output; unescape them so the stored
// message is the literal text the user typed, not &amp;-style artifacts.
//
// This MUST be called on all user-provided chat text before persisting it.
func Text(input string) string {
	if input == "" {
		return ""
	}
	stripped := getPolicy().Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
