// Package device turns raw User-Agent strings into the short display names
// recorded on sessions, so logs and audit events say "Chrome on Mac OS X"
// instead of a full UA string.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent derives a display name from a User-Agent header. Unparsable
// input still yields a stable, non-empty name.
func ParseUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	os := ua.OSInfo().Name
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}

	return browser + " on " + os
}
