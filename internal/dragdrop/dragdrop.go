// Package dragdrop tracks one list-reordering gesture at a time.
//
// Hovering reorders a preview copy of the document so the list order
// itself is the visual feedback. Nothing reaches the committed document
// until Drop.
package dragdrop

import (
	"fmt"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
)

// Origin is where a gesture started.
type Origin int

const (
	// OriginHandle is a section or item drag handle.
	OriginHandle Origin = iota
	// OriginTextInput is an editable field. Gestures there select text.
	OriginTextInput
	// OriginButton is an action button inside a row.
	OriginButton
)

// Phase is the controller state.
type Phase int

const (
	Idle Phase = iota
	DraggingSection
	DraggingItem
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case DraggingSection:
		return "dragging-section"
	case DraggingItem:
		return "dragging-item"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for _, v := range []Phase{Idle, DraggingSection, DraggingItem} {
		if v.String() == string(b) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown drag phase %q", b)
}

// State is the current phase plus the tracked source position. Item is
// meaningful only while dragging an item.
type State struct {
	Phase   Phase `json:"phase"`
	Section int   `json:"section"`
	Item    int   `json:"item"`
}

// Controller is not safe for concurrent use; each pointer owner (a
// websocket connection, a test) holds its own.
type Controller struct {
	m         *mutator.Mutator
	committed menu.AppState
	preview   menu.AppState
	state     State
	moved     bool
}

// New returns an idle controller over st.
func New(m *mutator.Mutator, st menu.AppState) *Controller {
	c := &Controller{m: m}
	c.Reset(st)
	return c
}

// Reset drops any gesture and rebases the controller on st.
func (c *Controller) Reset(st menu.AppState) {
	c.committed = st
	c.preview = st
	c.state = State{Phase: Idle}
	c.moved = false
}

// State returns the current phase and tracked position.
func (c *Controller) State() State { return c.state }

// Base returns the snapshot the controller was last rebased on. Until a
// drop commits, it is what the gesture is being applied to.
func (c *Controller) Base() menu.AppState { return c.committed }

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool { return c.state.Phase != Idle }

// Preview returns the document as the user currently sees it. While idle
// it equals the committed snapshot.
func (c *Controller) Preview() menu.AppState { return c.preview }

// BeginSection starts dragging section i. It refuses gestures that did
// not start on a handle, and refuses to start a second gesture.
func (c *Controller) BeginSection(i int, o Origin) bool {
	if o != OriginHandle || c.Dragging() {
		return false
	}
	if i < 0 || i >= len(c.preview.Menu.Sections) {
		return false
	}
	c.state = State{Phase: DraggingSection, Section: i}
	return true
}

// BeginItem starts dragging item i of section s.
func (c *Controller) BeginItem(s, i int, o Origin) bool {
	if o != OriginHandle || c.Dragging() {
		return false
	}
	secs := c.preview.Menu.Sections
	if s < 0 || s >= len(secs) || i < 0 || i >= len(secs[s].Items) {
		return false
	}
	c.state = State{Phase: DraggingItem, Section: s, Item: i}
	return true
}

// EnterSection handles the pointer entering section j. While dragging a
// section it moves the section to j. While dragging an item over a
// section with no items it moves the item into that section. It reports
// whether the preview changed.
func (c *Controller) EnterSection(j int) bool {
	secs := c.preview.Menu.Sections
	if j < 0 || j >= len(secs) {
		return false
	}
	switch c.state.Phase {
	case DraggingSection:
		if j == c.state.Section {
			return false
		}
		c.preview = c.m.MoveSection(c.preview, c.state.Section, j)
		c.state.Section = j
	case DraggingItem:
		if len(secs[j].Items) != 0 {
			return false
		}
		c.preview = c.m.MoveItem(c.preview, c.state.Section, c.state.Item, j, 0)
		c.state.Section, c.state.Item = j, 0
	default:
		return false
	}
	c.moved = true
	return true
}

// EnterItem handles the pointer entering item j of section t while
// dragging an item. It reports whether the preview changed.
func (c *Controller) EnterItem(t, j int) bool {
	if c.state.Phase != DraggingItem {
		return false
	}
	secs := c.preview.Menu.Sections
	if t < 0 || t >= len(secs) || j < 0 || j >= len(secs[t].Items) {
		return false
	}
	if t == c.state.Section && j == c.state.Item {
		return false
	}
	c.preview = c.m.MoveItem(c.preview, c.state.Section, c.state.Item, t, j)
	c.state.Section, c.state.Item = t, j
	c.moved = true
	return true
}

// Drop ends the gesture. It returns the snapshot to commit and whether the
// gesture moved anything; the controller is rebased on that snapshot.
func (c *Controller) Drop() (menu.AppState, bool) {
	if !c.Dragging() {
		return c.committed, false
	}
	out, moved := c.preview, c.moved
	c.Reset(out)
	return out, moved
}

// Cancel ends the gesture and discards the preview.
func (c *Controller) Cancel() {
	c.Reset(c.committed)
}
