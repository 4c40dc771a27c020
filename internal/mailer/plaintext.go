package mailer

import "regexp"

// plainTextRules is the ordered tag -> replacement list used to derive the
// plain-text alternative from an HTML body. It is a best-effort transform for
// the small markup vocabulary templates tend to use, not an HTML parser.
var plainTextRules = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?is)<a\s+href="([^"]*)"[^>]*>(.*?)</a>`), "$2: $1"},
	{regexp.MustCompile(`(?i)</?b>`), ""},
	{regexp.MustCompile(`(?i)</?i>`), ""},
}

// HTMLToPlainText applies the rules in order to produce the text/plain part
// of a multipart message.
func HTMLToPlainText(html string) string {
	text := html
	for _, rule := range plainTextRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}
