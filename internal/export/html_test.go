package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/menu-studio/internal/menu"
)

// menuData returns the text of the #menu-data script element.
func menuData(t *testing.T, page []byte) string {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == "menu-data" {
					found = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, found, "menu-data script")
	require.NotNil(t, found.FirstChild)
	return found.FirstChild.Data
}

func TestSnapshotEmbedsState(t *testing.T) {
	st := menu.NewAppState()
	page, err := Snapshot(st)
	require.NoError(t, err)

	var got menu.AppState
	require.NoError(t, json.Unmarshal([]byte(menuData(t, page)), &got))
	assert.Equal(t, st, got)
}

func TestSnapshotRendersMenu(t *testing.T) {
	st := menu.NewAppState()
	st.Menu.Sections = []menu.MenuSection{{ID: "1", Title: "Primi", Items: []menu.MenuItem{
		{ID: "1", Name: "Carbonara", Price: "12€", Description: "Con <b>guanciale</b>", Highlight: true, Allergens: "uova"},
	}}}
	page, err := Snapshot(st)
	require.NoError(t, err)
	s := string(page)

	assert.Contains(t, s, "<h2>Primi</h2>")
	assert.Contains(t, s, "★ Carbonara · 12€")
	assert.Contains(t, s, "<strong>guanciale</strong>")
	assert.Contains(t, s, "ALLERGENI: uova")
	assert.Contains(t, s, "fonts.googleapis.com/css2?family=")
}

func TestSnapshotEscapesUserText(t *testing.T) {
	st := menu.NewAppState()
	st.Menu.Title = `</script><script>alert(1)</script>`
	st.Menu.Sections = []menu.MenuSection{{ID: "1", Title: "<img src=x onerror=alert(1)>", Items: []menu.MenuItem{
		{ID: "1", Name: "*not bold*"},
	}}}
	page, err := Snapshot(st)
	require.NoError(t, err)
	s := string(page)

	assert.Equal(t, 1, strings.Count(s, "<script"), "only the data script")
	assert.NotContains(t, s, "<img src=x")
	assert.Contains(t, s, "*not bold*")

	var got menu.AppState
	require.NoError(t, json.Unmarshal([]byte(menuData(t, page)), &got))
	assert.Equal(t, st.Menu.Title, got.Menu.Title)
}

func TestSnapshotRejectsUnsafeBackground(t *testing.T) {
	st := menu.NewAppState()
	st.Brand.BackgroundImageURL = "javascript:alert(1)"
	st.Brand.BackgroundColor = "red; } body { display: none"
	page, err := Snapshot(st)
	require.NoError(t, err)

	s := string(page)
	css := s[strings.Index(s, "<style>"):strings.Index(s, "</style>")]
	assert.NotContains(t, css, "javascript:")
	assert.NotContains(t, css, "display: none")
	assert.Contains(t, css, "background-color: #ffffffff")
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in, fallback, want string
	}{
		{"#1c1917", "#ffffff", "#1c1917ff"},
		{"#f008", "#ffffff", "#ff000088"},
		{"not a color", "#ffffff", "#ffffffff"},
		{"", "#000000", "#000000ff"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hexColor(tt.in, tt.fallback), "hexColor(%q)", tt.in)
	}
}

func TestZip(t *testing.T) {
	data, err := Zip([]File{{Name: CoverFile, Data: []byte("one")}, {Name: ContactsFile, Data: []byte("two")}})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, CoverFile, zr.File[0].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	require.NoError(t, DirSink{Dir: dir}.Save(t.Context(), File{Name: StoryFile, Data: []byte("png")}))

	got, err := os.ReadFile(filepath.Join(dir, StoryFile))
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))
}
