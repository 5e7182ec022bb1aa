// Package importer turns pasted menu text into a FullMenu.
package importer

import (
	"regexp"
	"strings"

	"github.com/ziadkadry99/menu-studio/internal/menu"
)

// Defaults for imported menus.
const (
	ImportedTitle  = "Imported Menu"
	GeneralSection = "General"
)

var (
	// A number followed by a currency sign, or a sign followed by a number.
	priceAfterRe  = regexp.MustCompile(`[\d.,]+(\s?€|\$|£)`)
	priceBeforeRe = regexp.MustCompile(`(\s?€|\$|£)\s?[\d.,]+`)
	lineSplitRe   = regexp.MustCompile(`\n+`)
	trailingDash  = regexp.MustCompile(`[-–—]+$`)
)

// ParseText reads one entry per line. A line without a price that is all
// caps (longer than three characters) or ends with ":" opens a section;
// every other line is an item whose price token, if any, is split off.
// Items before the first header land in a "General" section.
func ParseText(text string, ids menu.IDGenerator) menu.FullMenu {
	fm := menu.FullMenu{Title: ImportedTitle, Sections: []menu.MenuSection{}}
	current := -1

	for _, raw := range lineSplitRe.Split(text, -1) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isHeader(line) && !hasPrice(line) {
			fm.Sections = append(fm.Sections, menu.MenuSection{
				ID:    ids.NewID(),
				Title: strings.TrimSuffix(line, ":"),
				Items: []menu.MenuItem{},
			})
			current = len(fm.Sections) - 1
			continue
		}

		if current < 0 {
			fm.Sections = append(fm.Sections, menu.MenuSection{ID: ids.NewID(), Title: GeneralSection, Items: []menu.MenuItem{}})
			current = len(fm.Sections) - 1
		}
		name, price := splitPrice(line)
		sec := &fm.Sections[current]
		sec.Items = append(sec.Items, menu.MenuItem{ID: ids.NewID(), Name: name, Price: price})
	}
	return fm
}

func isHeader(line string) bool {
	return (strings.ToUpper(line) == line && len([]rune(line)) > 3) || strings.HasSuffix(line, ":")
}

func hasPrice(line string) bool {
	return priceAfterRe.MatchString(line) || priceBeforeRe.MatchString(line)
}

func splitPrice(line string) (name, price string) {
	token := priceAfterRe.FindString(line)
	if token == "" {
		token = priceBeforeRe.FindString(line)
	}
	if token == "" {
		return line, ""
	}
	name = strings.TrimSpace(strings.Replace(line, token, "", 1))
	name = strings.TrimSpace(trailingDash.ReplaceAllString(name, ""))
	return name, strings.TrimSpace(token)
}
