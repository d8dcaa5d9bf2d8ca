package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips markup from names and titles and keeps safe markup in
// card content and comments. bluemonday policies are safe for concurrent use.
type sanitizer struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
	}
}

func (s *sanitizer) plain(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(v)))
}

func (s *sanitizer) plainPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := s.plain(*v)
	return &out
}

func (s *sanitizer) rich(v string) string {
	return strings.TrimSpace(s.ugc.Sanitize(v))
}

func (s *sanitizer) richPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := s.rich(*v)
	return &out
}
