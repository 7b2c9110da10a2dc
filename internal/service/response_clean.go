package service

import (
	"regexp"
	"strings"
)

var (
	wrapStart = regexp.MustCompile("(?is)^```(?:markdown|md)?[ \t]*\n")
	wrapEnd   = regexp.MustCompile("(?s)\n```$")
)

// cleanAssistantText quita BOM y un fence ```markdown que envuelva toda la respuesta.
// Fences internos quedan intactos para ValidateOutput.
func cleanAssistantText(raw string) string {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
	if s == "" {
		return ""
	}
	if wrapStart.MatchString(s) && wrapEnd.MatchString(s) && strings.Count(s, "```") == 2 {
		s = wrapStart.ReplaceAllString(s, "")
		s = wrapEnd.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
