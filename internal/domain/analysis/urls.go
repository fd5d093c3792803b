package analysis

import "regexp"

// urlPattern matches http/https links up to the next whitespace or double
// quote, mirroring how links appear in plain-text and HTML-ish bodies.
var urlPattern = regexp.MustCompile(`https?://[^\s"]+`)

// ExtractURLs returns every embedded link found in the body, in scan
// order. Duplicates are retained: the same link appearing twice is two
// entries, which keeps the extraction a faithful record of the body.
func ExtractURLs(body string) []string {
	return urlPattern.FindAllString(body, -1)
}
