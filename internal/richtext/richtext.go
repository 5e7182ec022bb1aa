// Package richtext parses item descriptions. Only bold, italic, underline
// and line breaks survive; every other tag is dropped and its text kept.
package richtext

import (
	"strings"

	"golang.org/x/net/html"
)

// Span is a run of text sharing one set of inline flags. A Break span
// carries no text and ends the current line.
type Span struct {
	Text      string `json:"text,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Break     bool   `json:"break,omitempty"`
}

func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Underline == o.Underline && !s.Break && !o.Break
}

// Parse converts markup into spans. It never fails: malformed markup
// degrades to text.
func Parse(markup string) []Span {
	z := html.NewTokenizer(strings.NewReader(markup))
	var (
		spans                   []Span
		bold, italic, underline int
		skip                    int
	)
	push := func(s Span) {
		if n := len(spans); n > 0 && spans[n-1].sameStyle(s) {
			spans[n-1].Text += s.Text
			return
		}
		spans = append(spans, s)
	}
	lineBreak := func() {
		if n := len(spans); n > 0 && !spans[n-1].Break {
			spans = append(spans, Span{Break: true})
		}
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way keep what was read.
			return trim(spans)
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := collapse(string(z.Text()))
			if text == "" {
				continue
			}
			push(Span{Text: text, Bold: bold > 0, Italic: italic > 0, Underline: underline > 0})
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				bold++
			case "i", "em":
				italic++
			case "u":
				underline++
			case "br":
				lineBreak()
			case "p", "div", "li":
				lineBreak()
			case "script", "style":
				if tt == html.StartTagToken {
					skip++
				}
			}
			if tt == html.SelfClosingTagToken {
				switch string(name) {
				case "b", "strong":
					bold--
				case "i", "em":
					italic--
				case "u":
					underline--
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				bold = max(0, bold-1)
			case "i", "em":
				italic = max(0, italic-1)
			case "u":
				underline = max(0, underline-1)
			case "script", "style":
				skip = max(0, skip-1)
			}
		}
	}
}

// PlainText flattens spans, rendering breaks as newlines.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Break {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// collapse folds whitespace runs into single spaces, keeping a leading or
// trailing space so adjacent spans do not run together.
func collapse(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// trim drops leading and trailing whitespace and breaks.
func trim(spans []Span) []Span {
	for len(spans) > 0 && (spans[0].Break || strings.TrimSpace(spans[0].Text) == "") {
		spans = spans[1:]
	}
	for len(spans) > 0 && (spans[len(spans)-1].Break || strings.TrimSpace(spans[len(spans)-1].Text) == "") {
		spans = spans[:len(spans)-1]
	}
	if len(spans) == 0 {
		return nil
	}
	spans[0].Text = strings.TrimLeft(spans[0].Text, " ")
	spans[len(spans)-1].Text = strings.TrimRight(spans[len(spans)-1].Text, " ")
	return spans
}
