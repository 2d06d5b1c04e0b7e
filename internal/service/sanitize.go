package service

import (
	"regexp"
	"strings"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)]\((https?://[^\s)]+)\)`)
	anchorRe       = regexp.MustCompile(`(?i)<a[^>]*>.*?</a>`)
	angleEscaper   = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// CleanDescription turns markdown links into anchors and escapes every other
// angle bracket. Anchor spans are kept verbatim and restored by position, so
// repeated identical anchors each stay where they were.
func CleanDescription(text string) string {
	if text == "" {
		return text
	}

	text = markdownLinkRe.ReplaceAllString(text, `<a href='${2}' target='_blank'>${1}</a>`)

	spans := anchorRe.FindAllStringIndex(text, -1)

	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	prev := 0
	for _, span := range spans {
		b.WriteString(angleEscaper.Replace(text[prev:span[0]]))
		b.WriteString(text[span[0]:span[1]])
		prev = span[1]
	}
	b.WriteString(angleEscaper.Replace(text[prev:]))

	return b.String()
}
