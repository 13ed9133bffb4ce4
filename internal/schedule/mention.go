package schedule

import (
	"fmt"
	"regexp"
)

// mentionPattern matches the chat platform's user-reference syntax, with or
// without the nickname bang: "<@86890631690977280>" or "<@!86890631690977280>".
var mentionPattern = regexp.MustCompile(`<@!?(\d*)>`)

// Internalize rewrites platform mention syntax into the escaped plain form
// the codec persists, so the codec itself never sees platform syntax. Applied
// once on ingest, before parsing.
func Internalize(payload, escapeToken string) string {
	if escapeToken == "" {
		escapeToken = DefaultEscapeToken
	}
	return mentionPattern.ReplaceAllString(payload, escapeToken+"${1}"+escapeToken)
}

// Externalize is the inverse transform, applied once on egress after
// serialization: escaped numeric identifiers become platform mentions.
func Externalize(payload, escapeToken string) string {
	if escapeToken == "" {
		escapeToken = DefaultEscapeToken
	}
	tokenized := regexp.MustCompile(
		fmt.Sprintf(`%s(\d*)%s`, regexp.QuoteMeta(escapeToken), regexp.QuoteMeta(escapeToken)))
	return tokenized.ReplaceAllString(payload, "<@${1}>")
}
