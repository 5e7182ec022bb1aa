package mutator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

// ErrInvalidCommand is returned for commands that fail validation.
var ErrInvalidCommand = errors.New("invalid command")

// Op names a command.
type Op string

const (
	OpSetMenuField      Op = "set_menu_field"
	OpSetSocial         Op = "set_social"
	OpSetBrandColor     Op = "set_brand_color"
	OpSetFont           Op = "set_font"
	OpSetLogo           Op = "set_logo"
	OpSetLogoStyle      Op = "set_logo_style"
	OpSetBackground     Op = "set_background"
	OpSetOverlayMode    Op = "set_overlay_mode"
	OpSetOverlayOpacity Op = "set_overlay_opacity"
	OpApplyPalette      Op = "apply_palette"
	OpAddSection        Op = "add_section"
	OpDuplicateSection  Op = "duplicate_section"
	OpDeleteSection     Op = "delete_section"
	OpMoveSection       Op = "move_section"
	OpSetSectionTitle   Op = "set_section_title"
	OpAddItem           Op = "add_item"
	OpDeleteItem        Op = "delete_item"
	OpMoveItem          Op = "move_item"
	OpSetItemField      Op = "set_item_field"
	OpSetHighlight      Op = "set_highlight"
	OpSetAlign          Op = "set_align"
	OpSetFlag           Op = "set_flag"
	OpSetScale          Op = "set_scale"
	OpSetStyleColor     Op = "set_style_color"
	OpSetStyleGradient  Op = "set_style_gradient"
)

// Ops lists every command name.
var Ops = []Op{
	OpSetMenuField, OpSetSocial, OpSetBrandColor, OpSetFont, OpSetLogo, OpSetLogoStyle,
	OpSetBackground, OpSetOverlayMode, OpSetOverlayOpacity, OpApplyPalette,
	OpAddSection, OpDuplicateSection, OpDeleteSection, OpMoveSection, OpSetSectionTitle,
	OpAddItem, OpDeleteItem, OpMoveItem, OpSetItemField, OpSetHighlight,
	OpSetAlign, OpSetFlag, OpSetScale, OpSetStyleColor, OpSetStyleGradient,
}

// Command is the wire form of one edit, used by the HTTP API, the MCP
// tools, the websocket channel and the CLI.
//
// Value holds a string, bool or number depending on Op.
type Command struct {
	Op        Op     `json:"op" validate:"required"`
	Section   *int   `json:"section,omitempty" validate:"omitempty,min=0"`
	Item      *int   `json:"item,omitempty" validate:"omitempty,min=0"`
	ToSection *int   `json:"toSection,omitempty" validate:"omitempty,min=0"`
	ToItem    *int   `json:"toItem,omitempty" validate:"omitempty,min=0"`
	Slot      string `json:"slot,omitempty"`
	Field     string `json:"field,omitempty"`
	Value     any    `json:"value,omitempty"`
}

// Int is a helper for building commands in code.
func Int(v int) *int { return &v }

var validate = validator.New()

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

// Validate checks the command against st without applying it.
func (c Command) Validate(st menu.AppState) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	switch c.Op {
	case OpSetMenuField:
		return firstErr(c.oneOf("field", c.Field, menuFields), c.needString())
	case OpSetSocial:
		return firstErr(c.oneOf("field", c.Field, socialFields), c.needString())
	case OpSetBrandColor:
		return firstErr(c.oneOf("field", c.Field, colorFields), c.needColor())
	case OpSetFont:
		if err := c.oneOf("field", c.Field, fontSlots); err != nil {
			return err
		}
		s, err := c.stringValue()
		if err != nil {
			return err
		}
		return c.oneOf("value", s, menu.FontIDs())
	case OpSetLogo, OpSetBackground:
		return c.needString()
	case OpSetLogoStyle:
		s, err := c.stringValue()
		if err != nil {
			return err
		}
		return c.oneOf("value", s, []string{string(menu.LogoOriginal), string(menu.LogoRounded), string(menu.LogoCircle)})
	case OpSetOverlayMode:
		s, err := c.stringValue()
		if err != nil {
			return err
		}
		return c.oneOf("value", s, []string{string(menu.OverlaySolid), string(menu.OverlayGradient)})
	case OpSetOverlayOpacity:
		_, err := c.floatValue()
		return err
	case OpApplyPalette:
		s, err := c.stringValue()
		if err != nil {
			return err
		}
		if _, ok := menu.PaletteByName(s); !ok {
			return invalid("unknown palette %q", s)
		}
		return nil
	case OpAddSection:
		return nil
	case OpDuplicateSection, OpDeleteSection, OpAddItem:
		return c.needSection(st)
	case OpSetSectionTitle:
		return firstErr(c.needSection(st), c.needString())
	case OpMoveSection:
		if err := c.needSection(st); err != nil {
			return err
		}
		if c.ToSection == nil || *c.ToSection >= len(st.Menu.Sections) {
			return invalid("toSection must index an existing section")
		}
		return nil
	case OpDeleteItem:
		return c.needItem(st)
	case OpSetItemField:
		return firstErr(c.needItem(st), c.oneOf("field", c.Field, itemFields), c.needString())
	case OpSetHighlight:
		if err := c.needItem(st); err != nil {
			return err
		}
		_, err := c.boolValue()
		return err
	case OpMoveItem:
		if err := c.needItem(st); err != nil {
			return err
		}
		if c.ToSection == nil || *c.ToSection >= len(st.Menu.Sections) {
			return invalid("toSection must index an existing section")
		}
		if c.ToItem == nil {
			return invalid("toItem is required")
		}
		n := len(st.Menu.Sections[*c.ToSection].Items)
		if *c.ToSection == *c.Section {
			n--
		}
		if *c.ToItem > n {
			return invalid("toItem %d out of range [0,%d]", *c.ToItem, n)
		}
		return nil
	case OpSetAlign:
		if err := c.needSlot(); err != nil {
			return err
		}
		s, err := c.stringValue()
		if err != nil {
			return err
		}
		return c.oneOf("value", s, []string{string(menu.AlignLeft), string(menu.AlignCenter), string(menu.AlignRight)})
	case OpSetFlag:
		if err := firstErr(c.needSlot(), c.oneOf("field", c.Field, flags)); err != nil {
			return err
		}
		_, err := c.boolValue()
		return err
	case OpSetScale:
		if err := c.needSlot(); err != nil {
			return err
		}
		_, err := c.floatValue()
		return err
	case OpSetStyleColor:
		if err := c.needSlot(); err != nil {
			return err
		}
		s, err := c.stringValue()
		if err != nil || s == "" {
			return err
		}
		return c.needColor()
	case OpSetStyleGradient:
		if err := c.needSlot(); err != nil {
			return err
		}
		s, err := c.stringValue()
		if err != nil || s == "" {
			return err
		}
		if _, err := style.ParseGradient(s); err != nil {
			return invalid("%v", err)
		}
		return nil
	}
	return invalid("unknown op %q", c.Op)
}

// Execute validates c and applies it to st.
func (m *Mutator) Execute(st menu.AppState, c Command) (menu.AppState, error) {
	if err := c.Validate(st); err != nil {
		return st, err
	}
	s, _ := c.stringValue()
	b, _ := c.boolValue()
	f, _ := c.floatValue()

	switch c.Op {
	case OpSetMenuField:
		return m.SetMenuField(st, MenuField(c.Field), s), nil
	case OpSetSocial:
		return m.SetSocialField(st, SocialField(c.Field), s), nil
	case OpSetBrandColor:
		return m.SetBrandColor(st, ColorField(c.Field), s), nil
	case OpSetFont:
		return m.SetFont(st, FontSlot(c.Field), s), nil
	case OpSetLogo:
		return m.SetLogo(st, s), nil
	case OpSetLogoStyle:
		return m.SetLogoStyle(st, menu.LogoStyle(s)), nil
	case OpSetBackground:
		return m.SetBackgroundImage(st, s), nil
	case OpSetOverlayMode:
		return m.SetOverlayMode(st, menu.OverlayMode(s)), nil
	case OpSetOverlayOpacity:
		return m.SetOverlayOpacity(st, f), nil
	case OpApplyPalette:
		p, _ := menu.PaletteByName(s)
		return m.ApplyPalette(st, p), nil
	case OpAddSection:
		return m.AddSection(st), nil
	case OpDuplicateSection:
		return m.DuplicateSection(st, *c.Section), nil
	case OpDeleteSection:
		return m.DeleteSection(st, *c.Section), nil
	case OpMoveSection:
		return m.MoveSection(st, *c.Section, *c.ToSection), nil
	case OpSetSectionTitle:
		return m.SetSectionTitle(st, *c.Section, s), nil
	case OpAddItem:
		return m.AddItem(st, *c.Section), nil
	case OpDeleteItem:
		return m.DeleteItem(st, *c.Section, *c.Item), nil
	case OpMoveItem:
		return m.MoveItem(st, *c.Section, *c.Item, *c.ToSection, *c.ToItem), nil
	case OpSetItemField:
		return m.SetItemField(st, *c.Section, *c.Item, ItemField(c.Field), s), nil
	case OpSetHighlight:
		return m.SetItemHighlight(st, *c.Section, *c.Item, b), nil
	case OpSetAlign:
		return m.SetAlign(st, menu.Slot(c.Slot), menu.Align(s)), nil
	case OpSetFlag:
		return m.SetTypographyFlag(st, menu.Slot(c.Slot), Flag(c.Field), b), nil
	case OpSetScale:
		return m.SetTypographyScale(st, menu.Slot(c.Slot), f), nil
	case OpSetStyleColor:
		return m.SetTypographyColor(st, menu.Slot(c.Slot), s), nil
	case OpSetStyleGradient:
		return m.SetTypographyGradient(st, menu.Slot(c.Slot), s), nil
	}
	return st, invalid("unknown op %q", c.Op)
}

func (c Command) oneOf(name, v string, allowed []string) error {
	if err := validate.Var(v, "required,oneof="+strings.Join(allowed, " ")); err != nil {
		return invalid("%s %q must be one of %s", name, v, strings.Join(allowed, ", "))
	}
	return nil
}

func (c Command) needSection(st menu.AppState) error {
	if c.Section == nil {
		return invalid("section is required")
	}
	if *c.Section >= len(st.Menu.Sections) {
		return invalid("section %d out of range [0,%d)", *c.Section, len(st.Menu.Sections))
	}
	return nil
}

func (c Command) needItem(st menu.AppState) error {
	if err := c.needSection(st); err != nil {
		return err
	}
	if c.Item == nil {
		return invalid("item is required")
	}
	if n := len(st.Menu.Sections[*c.Section].Items); *c.Item >= n {
		return invalid("item %d out of range [0,%d)", *c.Item, n)
	}
	return nil
}

func (c Command) needSlot() error {
	if !menu.Slot(c.Slot).Valid() {
		return invalid("slot %q must be one of sectionTitle, itemName, itemDescription, price", c.Slot)
	}
	return nil
}

func (c Command) needString() error {
	_, err := c.stringValue()
	return err
}

func (c Command) needColor() error {
	s, err := c.stringValue()
	if err != nil {
		return err
	}
	if _, err := style.ParseColor(s); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func (c Command) stringValue() (string, error) {
	switch v := c.Value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", invalid("value must be a string, got %T", c.Value)
}

func (c Command) boolValue() (bool, error) {
	if v, ok := c.Value.(bool); ok {
		return v, nil
	}
	return false, invalid("value must be a boolean, got %T", c.Value)
}

func (c Command) floatValue() (float64, error) {
	switch v := c.Value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	return 0, invalid("value must be a number, got %T", c.Value)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
