package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{"plain", "Pomodoro fresco", []Span{{Text: "Pomodoro fresco"}}},
		{"empty", "", nil},
		{
			"bold and italic",
			"Con <b>parmigiano</b> e <i>rucola</i>",
			[]Span{{Text: "Con "}, {Text: "parmigiano", Bold: true}, {Text: " e "}, {Text: "rucola", Italic: true}},
		},
		{
			"nested",
			"<strong><em>doppio</em></strong>",
			[]Span{{Text: "doppio", Bold: true, Italic: true}},
		},
		{
			"underline and break",
			"<u>uno</u><br>due",
			[]Span{{Text: "uno", Underline: true}, {Break: true}, {Text: "due"}},
		},
		{
			"unknown tags dropped, text kept",
			`<a href="x" onclick="alert(1)">link</a> <span style="color:red">rosso</span>`,
			[]Span{{Text: "link rosso"}},
		},
		{
			"script content dropped",
			"prima<script>alert('x')</script>dopo",
			[]Span{{Text: "primadopo"}},
		},
		{
			"entities decoded",
			"pat&eacute; &amp; olive",
			[]Span{{Text: "paté & olive"}},
		},
		{
			"whitespace collapsed",
			"  molto\n\n   buono  ",
			[]Span{{Text: "molto buono"}},
		},
		{
			"unbalanced close tag",
			"</b>testo",
			[]Span{{Text: "testo"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "uno\ndue", PlainText(Parse("<b>uno</b><br/>due")))
}
