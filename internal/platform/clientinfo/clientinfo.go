// Package clientinfo derives a coarse, low-cardinality label from a raw
// User-Agent header. The label is stored alongside applicant records for the
// admin dashboard; the raw header is never persisted.
package clientinfo

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// Summarize reduces a User-Agent string to "browser major / os (platform)".
// Returns "unknown" for empty or unparseable input.
func Summarize(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return "unknown"
	}

	ua := useragent.New(userAgentString)
	browser, version := ua.Browser()

	majorVersion := ""
	if version != "" {
		if before, _, found := strings.Cut(version, "."); found {
			majorVersion = before
		} else {
			majorVersion = version
		}
	}

	os := strings.ToLower(strings.TrimSpace(ua.OS()))
	if os == "" {
		os = "unknown"
	}

	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	} else if ua.Bot() {
		platform = "bot"
	}

	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}

	if majorVersion != "" {
		browser = fmt.Sprintf("%s %s", browser, majorVersion)
	}

	return fmt.Sprintf("%s / %s (%s)", browser, os, platform)
}
