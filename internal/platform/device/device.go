// Package device turns raw User-Agent strings into short human-readable
// device names. Caregivers submit records from shared field tablets and
// personal phones; the audit trail records which, so a reviewer can spot a
// submission from an unexpected device.
package device

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent converts a User-Agent string into a display name such as
// "Chrome on Mac OS X" or "Safari on iPhone". Unknown agents fall back to a
// generic formatted string; empty input returns "Unknown Device".
func ParseUserAgent(uaString string) string {
	if uaString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(uaString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(fmt.Sprintf("%s on %s", browser, os))
}
