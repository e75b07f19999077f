package ai

import (
	"strings"

	"golang.org/x/net/html"
)

// inlineTags maps accepted tag names to the tag they are emitted as.
var inlineTags = map[string]string{
	"b":      "b",
	"strong": "b",
	"i":      "i",
	"em":     "i",
}

// SanitizeInlineHTML reduces model output to text plus <b>, <i> and <br>.
// Attributes are dropped, every other tag is removed, and the bodies of
// script/style elements are discarded.
func SanitizeInlineHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(stripCodeFence(s)))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())

		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if tag == "br" {
				b.WriteString("<br>")
				continue
			}
			if out, ok := inlineTags[tag]; ok && tt == html.StartTagToken {
				b.WriteString("<" + out + ">")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if out, ok := inlineTags[tag]; ok {
				b.WriteString("</" + out + ">")
			}
		}
	}
}
