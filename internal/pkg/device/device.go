package device

import (
	"regexp"
	"strings"
)

var (
	browserPattern = regexp.MustCompile(`(Firefox|Chrome|Safari|Edge|Opera|Trident)/\d+`)
	osPattern      = regexp.MustCompile(`\(([^)]+)\)`)
)

// Describe turns a User-Agent header into a short "<browser>, <os>" label for
// notification emails. Unknown parts are left empty.
func Describe(userAgent string) string {
	browser := ""
	if m := browserPattern.FindStringSubmatch(userAgent); m != nil {
		browser = m[1]
		if browser == "Trident" {
			browser = "Internet Explorer"
		}
	}

	os := ""
	if m := osPattern.FindStringSubmatch(userAgent); m != nil && m[1] != "" {
		first := strings.Split(m[1], ";")[0]
		switch {
		case strings.Contains(first, "Windows"):
			os = "Windows"
		case strings.Contains(first, "Mac"):
			os = "Mac OS"
		case strings.Contains(first, "X11"), strings.Contains(first, "Linux"):
			os = "Linux"
		default:
			os = strings.TrimSpace(first)
		}
	}
	return browser + ", " + os
}
