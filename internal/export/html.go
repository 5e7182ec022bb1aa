package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/richtext"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

const snapshotTemplate = `<!DOCTYPE html>
<html lang="it">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  {{range .FontLinks}}<link rel="stylesheet" href="{{.}}">
  {{end}}<style>
    body { margin: 0; background-color: {{.Background}}; color: {{.Text}}; font-family: {{.BodyFamily}}; }
    {{if .BackgroundImage}}body { background-image: url({{.BackgroundImage}}); background-size: cover; background-attachment: fixed; }
    {{end}}main { max-width: 768px; margin: 0 auto; padding: 48px 32px; }
    h1, h2 { font-family: {{.TitleFamily}}; color: {{.Primary}}; }
    h1 { text-align: center; font-size: 3em; margin-bottom: 0.2em; }
    h2 { border-bottom: 1px solid {{.Accent}}; padding-bottom: 0.3em; text-transform: uppercase; }
    h3 { display: flex; justify-content: space-between; gap: 1em; margin-bottom: 0.2em; }
    hr { border: 0; border-top: 1px solid {{.Accent}}; }
    .logo { display: block; margin: 0 auto 24px; max-width: 160px; max-height: 160px; }
  </style>
</head>
<body>
  <main>
    {{if .Logo}}<img class="logo" src="{{.Logo}}" alt="Logo">{{end}}
    {{.Content}}
  </main>
  <script type="application/json" id="menu-data">{{.State}}</script>
</body>
</html>
`

var snapshotTmpl = template.Must(template.New("snapshot").Parse(snapshotTemplate))

type snapshotData struct {
	Title           string
	FontLinks       []string
	Background      string
	Text            string
	Primary         string
	Accent          string
	TitleFamily     template.CSS
	BodyFamily      template.CSS
	BackgroundImage string
	Logo            any
	Content         template.HTML
	State           menu.AppState
}

// markdown renders the fallback content. Raw HTML in user text is
// escaped, never passed through.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Snapshot renders st as a standalone HTML page. The full state is
// embedded as JSON under #menu-data; the visible page is a static
// rendering of the menu.
func Snapshot(st menu.AppState) ([]byte, error) {
	var md bytes.Buffer
	if err := markdown.Convert([]byte(menuMarkdown(st.Menu)), &md); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	b := st.Brand
	data := snapshotData{
		Title:           st.Menu.Title,
		FontLinks:       fontLinks(b.FontTitle, b.FontBody),
		Background:      hexColor(b.BackgroundColor, "#ffffff"),
		Text:            hexColor(b.TextColor, "#000000"),
		Primary:         hexColor(b.PrimaryColor, "#000000"),
		Accent:          hexColor(b.AccentColor, "#000000"),
		TitleFamily:     family(b.FontTitle),
		BodyFamily:      family(b.FontBody),
		BackgroundImage: b.BackgroundImageURL,
		Logo:            logoSrc(b.LogoURL),
		Content:         template.HTML(md.String()),
		State:           st,
	}
	if data.Title == "" {
		data.Title = "Menu"
	}

	var out bytes.Buffer
	if err := snapshotTmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("executing snapshot template: %w", err)
	}
	return out.Bytes(), nil
}

func hexColor(s, fallback string) string {
	c, err := style.ParseColor(s)
	if err != nil {
		c, _ = style.ParseColor(fallback)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// family returns the catalog's CSS stack for id. Only catalog values reach
// the stylesheet.
func family(id string) template.CSS {
	if f, ok := menu.FontByID(id); ok {
		return template.CSS(f.Family)
	}
	return "sans-serif"
}

func fontLinks(ids ...string) []string {
	var params []string
	seen := map[string]bool{}
	for _, id := range ids {
		f, ok := menu.FontByID(id)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		params = append(params, "family="+f.Webfont)
	}
	if len(params) == 0 {
		return nil
	}
	return []string{"https://fonts.googleapis.com/css2?" + strings.Join(params, "&") + "&display=swap"}
}

// logoSrc lets uploaded data:image URLs through the template's URL filter.
func logoSrc(u string) any {
	if strings.HasPrefix(u, "data:image/") {
		return template.URL(u)
	}
	return u
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`, "~", `\~`,
)

func esc(s string) string { return mdEscaper.Replace(strings.TrimSpace(s)) }

func menuMarkdown(m menu.FullMenu) string {
	var b strings.Builder
	if m.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", esc(m.Title))
	}
	if m.Subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", esc(m.Subtitle))
	}
	if m.FixedPrice != "" {
		fmt.Fprintf(&b, "**%s**\n\n", esc(m.FixedPrice))
	}
	for _, sec := range m.Sections {
		fmt.Fprintf(&b, "## %s\n\n", esc(sec.Title))
		for _, it := range sec.Items {
			name := esc(it.Name)
			if it.Highlight {
				name = "★ " + name
			}
			if it.Price != "" {
				fmt.Fprintf(&b, "### %s · %s\n\n", name, esc(it.Price))
			} else {
				fmt.Fprintf(&b, "### %s\n\n", name)
			}
			if d := spansMarkdown(richtext.Parse(it.Description)); d != "" {
				fmt.Fprintf(&b, "%s\n\n", d)
			}
			if it.Allergens != "" {
				fmt.Fprintf(&b, "*ALLERGENI: %s*\n\n", esc(it.Allergens))
			}
		}
	}
	if m.FooterNote != "" || !m.Socials.Empty() {
		b.WriteString("---\n\n")
	}
	if m.FooterNote != "" {
		fmt.Fprintf(&b, "%s\n\n", esc(m.FooterNote))
	}
	if s := m.Socials; !s.Empty() {
		rows := []struct{ label, value string }{
			{"", s.CompanyName},
			{"Telefono", s.Phone},
			{"Instagram", s.Instagram},
			{"TikTok", s.TikTok},
			{"Website", s.Website},
		}
		for _, r := range rows {
			switch {
			case r.value == "":
			case r.label == "":
				fmt.Fprintf(&b, "**%s**\n\n", esc(r.value))
			default:
				fmt.Fprintf(&b, "%s: %s\n\n", r.label, esc(r.value))
			}
		}
	}
	return b.String()
}

func spansMarkdown(spans []richtext.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.Break {
			b.WriteString("  \n")
			continue
		}
		text := esc(sp.Text)
		if text == "" {
			continue
		}
		lead := sp.Text[:len(sp.Text)-len(strings.TrimLeft(sp.Text, " "))]
		trail := sp.Text[len(strings.TrimRight(sp.Text, " ")):]
		switch {
		case sp.Bold && sp.Italic:
			text = "***" + text + "***"
		case sp.Bold:
			text = "**" + text + "**"
		case sp.Italic:
			text = "*" + text + "*"
		}
		b.WriteString(lead + text + trail)
	}
	return strings.TrimSpace(b.String())
}
