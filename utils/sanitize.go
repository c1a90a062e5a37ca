package utils

import "github.com/microcosm-cc/bluemonday"

var contentPolicy = bluemonday.UGCPolicy()

// SanitizeContent strips anything unsafe from user supplied post bodies while
// keeping basic formatting markup.
func SanitizeContent(input string) string {
	return contentPolicy.Sanitize(input)
}
