package raster

import (
	"context"
	"math"
	"strings"

	"golang.org/x/image/font"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/render"
	"github.com/ziadkadry99/menu-studio/internal/richtext"
)

const lineHeight = 1.3

// box is a laid-out node in device pixels. x and y are absolute once
// place has run.
type box struct {
	node       *render.Node
	x, y, w, h float64

	font    string
	color   string
	opacity float64

	lines    []line
	children []*box
	pinned   []*box
}

type run struct {
	text      string
	face      font.Face
	underline bool
	w         float64
}

type line struct {
	runs []run
	w    float64
}

type layouter struct {
	ctx    context.Context
	s      float64
	fonts  *FontBank
	images ImageSource
}

func (l *layouter) px(v float64) float64 { return v * l.s }

func (l *layouter) pad(n *render.Node) (top, right, bottom, left float64) {
	p := n.Padding
	bw := l.px(n.BorderWidth)
	return l.px(p.Top) + bw, l.px(p.Right) + bw, l.px(p.Bottom) + bw, l.px(p.Left) + bw
}

// measure sizes n. With stretch the box takes the whole avail width;
// otherwise it shrinks to fit its content.
func (l *layouter) measure(n *render.Node, parent *box, avail float64, stretch bool) *box {
	b := &box{node: n, font: parent.font, color: parent.color, opacity: parent.opacity}
	if n.Font != "" {
		b.font = n.Font
	}
	if n.Color != "" {
		b.color = n.Color
	}
	if n.Opacity > 0 {
		b.opacity *= n.Opacity
	}
	if n.Width > 0 {
		avail = math.Min(avail, l.px(n.Width))
		stretch = true
	}

	pt, pr, pb, pl := l.pad(n)
	inner := math.Max(0, avail-pl-pr)

	var cw, ch float64
	switch n.Kind {
	case render.KindText:
		cw, ch = l.measureText(b, inner)
	case render.KindRow:
		cw, ch = l.measureRow(b, inner)
	case render.KindGrid:
		cw, ch = l.measureGrid(b, inner)
	case render.KindCanvas:
		cw, ch = l.measureStack(b, inner)
	case render.KindImage:
		cw, ch = l.measureImage(n)
	case render.KindRule:
		stretch = stretch || n.Width == 0
	case render.KindBackground, render.KindOverlay:
		stretch = true
	case render.KindSpacer, render.KindQR:
	default: // column, card, badge
		cw, ch = l.measureColumn(b, inner)
	}

	b.w = cw + pl + pr
	if stretch {
		b.w = avail
	}
	if n.Width > 0 {
		b.w = l.px(n.Width)
	}
	b.h = ch + pt + pb
	if n.Height > 0 {
		b.h = l.px(n.Height)
	}
	return b
}

func (l *layouter) measureColumn(b *box, inner float64) (w, h float64) {
	n := b.node
	stretch := n.Align == render.CrossStretch
	gap := l.px(n.Gap)
	flow := 0
	for _, c := range n.Children {
		if c.Pin != render.PinNone {
			b.pinned = append(b.pinned, l.measure(c, b, inner, false))
			continue
		}
		cb := l.measure(c, b, inner, stretch)
		if flow > 0 {
			h += gap
		}
		flow++
		b.children = append(b.children, cb)
		w = math.Max(w, cb.w)
		h += cb.h
	}
	return w, h
}

func (l *layouter) measureRow(b *box, inner float64) (w, h float64) {
	n := b.node
	gap := l.px(n.Gap)

	var flow []*render.Node
	for _, c := range n.Children {
		if c.Pin != render.PinNone {
			b.pinned = append(b.pinned, l.measure(c, b, inner, false))
			continue
		}
		flow = append(flow, c)
	}
	if len(flow) == 0 {
		return 0, 0
	}

	if n.Wrap {
		var lineW, lineH float64
		first := true
		for _, c := range flow {
			cb := l.measure(c, b, inner, false)
			b.children = append(b.children, cb)
			if !first && lineW+gap+cb.w > inner {
				w = math.Max(w, lineW)
				h += lineH + gap
				lineW, lineH, first = 0, 0, true
			}
			if !first {
				lineW += gap
			}
			lineW += cb.w
			lineH = math.Max(lineH, cb.h)
			first = false
		}
		return math.Max(w, lineW), h + lineH
	}

	// Fixed children first, growers share what is left.
	boxes := make([]*box, len(flow))
	used := gap * float64(len(flow)-1)
	growers := 0
	for i, c := range flow {
		if c.Grow {
			growers++
			continue
		}
		boxes[i] = l.measure(c, b, inner, false)
		used += boxes[i].w
	}
	if growers > 0 {
		share := math.Max(0, inner-used) / float64(growers)
		for i, c := range flow {
			if c.Grow {
				boxes[i] = l.measure(c, b, share, true)
				used += boxes[i].w
			}
		}
	}
	for _, cb := range boxes {
		h = math.Max(h, cb.h)
	}
	b.children = boxes
	return used, h
}

func (l *layouter) measureGrid(b *box, inner float64) (w, h float64) {
	n := b.node
	cols := max(1, n.Columns)
	gap := l.px(n.Gap)
	colW := math.Max(0, (inner-gap*float64(cols-1))/float64(cols))
	var rowH float64
	for i, c := range n.Children {
		cb := l.measure(c, b, colW, true)
		b.children = append(b.children, cb)
		rowH = math.Max(rowH, cb.h)
		if i%cols == cols-1 || i == len(n.Children)-1 {
			if h > 0 {
				h += gap
			}
			h += rowH
			rowH = 0
		}
	}
	return inner, h
}

func (l *layouter) measureStack(b *box, inner float64) (w, h float64) {
	for _, c := range b.node.Children {
		cb := l.measure(c, b, inner, true)
		b.children = append(b.children, cb)
		if c.Kind != render.KindBackground && c.Kind != render.KindOverlay {
			h = math.Max(h, cb.h)
		}
	}
	return inner, h
}

func (l *layouter) measureImage(n *render.Node) (w, h float64) {
	w, h = l.px(n.Width), l.px(n.Height)
	if w > 0 && h > 0 {
		return w, h
	}
	ratio := 1.0
	if img, err := l.images.Image(l.ctx, n.Image); err == nil {
		if bd := img.Bounds(); bd.Dy() > 0 {
			ratio = float64(bd.Dx()) / float64(bd.Dy())
		}
	}
	switch {
	case h > 0:
		return h * ratio, h
	case w > 0:
		return w, w / ratio
	}
	return 0, 0
}

// --- text ---

func (l *layouter) textSize(n *render.Node) float64 {
	if n.Style != nil && n.Style.Size > 0 {
		return l.px(n.Style.Size)
	}
	return l.px(16)
}

func (l *layouter) iconWidth(n *render.Node) float64 {
	if n.Icon == render.IconNone {
		return 0
	}
	return l.textSize(n) * 1.2
}

func (l *layouter) measureText(b *box, inner float64) (w, h float64) {
	n := b.node
	size := l.textSize(n)
	b.lines = l.wrap(b, inner-l.iconWidth(n))
	for _, ln := range b.lines {
		w = math.Max(w, ln.w)
	}
	w += l.iconWidth(n)
	return w, float64(len(b.lines)) * size * lineHeight
}

func (l *layouter) spans(n *render.Node) []richtext.Span {
	if len(n.Spans) > 0 {
		return n.Spans
	}
	return []richtext.Span{{Text: n.Text}}
}

// wrap breaks the node's spans into lines no wider than avail. A word
// wider than avail gets a line of its own.
func (l *layouter) wrap(b *box, avail float64) []line {
	n := b.node
	size := l.textSize(n)
	var bold, italic, underline, upper bool
	if d := n.Style; d != nil {
		bold, italic, underline, upper = d.Bold, d.Italic, d.Underline, d.Uppercase
	}

	lines := []line{{}}
	cur := func() *line { return &lines[len(lines)-1] }
	add := func(text string, face font.Face, ul bool) {
		ln := cur()
		w := measureString(face, text)
		if k := len(ln.runs); k > 0 && ln.runs[k-1].face == face && ln.runs[k-1].underline == ul {
			ln.runs[k-1].text += text
			ln.runs[k-1].w += w
		} else {
			ln.runs = append(ln.runs, run{text: text, face: face, underline: ul, w: w})
		}
		ln.w += w
	}

	for _, sp := range l.spans(n) {
		if sp.Break {
			lines = append(lines, line{})
			continue
		}
		text := sp.Text
		if upper {
			text = strings.ToUpper(text)
		}
		face := l.fonts.Face(b.font, bold || sp.Bold, italic || sp.Italic, size)
		ul := underline || sp.Underline

		words := strings.Split(text, " ")
		for i, word := range words {
			if i > 0 && len(cur().runs) > 0 {
				add(" ", face, ul)
			}
			if word == "" {
				continue
			}
			ww := measureString(face, word)
			if ln := cur(); len(ln.runs) > 0 && ln.w+ww > avail {
				trimTrailingSpace(ln)
				lines = append(lines, line{})
			}
			add(word, face, ul)
		}
	}
	for i := range lines {
		trimTrailingSpace(&lines[i])
	}

	if n.MaxLines > 0 && len(lines) > n.MaxLines {
		lines = lines[:n.MaxLines]
		ellipsize(&lines[len(lines)-1], avail)
	}
	if len(lines) == 1 && len(lines[0].runs) == 0 && n.Text == "" && len(n.Spans) == 0 {
		return nil
	}
	return lines
}

func trimTrailingSpace(ln *line) {
	for k := len(ln.runs) - 1; k >= 0; k-- {
		r := &ln.runs[k]
		trimmed := strings.TrimRight(r.text, " ")
		if trimmed == r.text {
			return
		}
		cut := measureString(r.face, r.text[len(trimmed):])
		r.text, r.w = trimmed, r.w-cut
		ln.w -= cut
		if r.text != "" {
			return
		}
		ln.runs = ln.runs[:k]
	}
}

// ellipsize ends ln with "..." and drops characters until it fits.
func ellipsize(ln *line, avail float64) {
	if len(ln.runs) == 0 {
		return
	}
	last := &ln.runs[len(ln.runs)-1]
	dots := measureString(last.face, "...")
	for ln.w+dots > avail && last.text != "" {
		rs := []rune(last.text)
		cut := measureString(last.face, string(rs[len(rs)-1]))
		last.text = string(rs[:len(rs)-1])
		last.w -= cut
		ln.w -= cut
	}
	last.text = strings.TrimRight(last.text, " ") + "..."
	last.w = measureString(last.face, last.text)
	ln.w = 0
	for _, r := range ln.runs {
		ln.w += r.w
	}
}

func measureString(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// --- placement ---

// place positions b at (x, y) with final height h and arranges its
// children.
func (l *layouter) place(b *box, x, y, h float64) {
	b.x, b.y, b.h = x, y, h
	n := b.node
	pt, pr, pb, pl := l.pad(n)
	ix, iy := x+pl, y+pt
	iw, ih := math.Max(0, b.w-pl-pr), math.Max(0, h-pt-pb)

	switch n.Kind {
	case render.KindCanvas:
		for _, c := range b.children {
			l.place(c, ix, iy, ih)
		}
	case render.KindRow:
		l.placeRow(b, ix, iy, iw, ih)
	case render.KindGrid:
		l.placeGrid(b, ix, iy)
	case render.KindText, render.KindImage, render.KindRule, render.KindSpacer,
		render.KindQR, render.KindBackground, render.KindOverlay:
	default:
		l.placeColumn(b, ix, iy, iw, ih)
	}

	for _, p := range b.pinned {
		px := ix + (iw-p.w)/2
		if p.node.Pin == render.PinBottomRight {
			px = ix + iw - p.w
		}
		l.place(p, px, iy+ih-p.h, p.h)
	}
}

func (l *layouter) placeColumn(b *box, ix, iy, iw, ih float64) {
	n := b.node
	gap := l.px(n.Gap)
	used := 0.0
	growers := 0
	for i, c := range b.children {
		if i > 0 {
			used += gap
		}
		used += c.h
		if c.node.Grow {
			growers++
		}
	}
	free := math.Max(0, ih-used)
	extra := 0.0
	if growers > 0 {
		extra = free / float64(growers)
		free = 0
	}
	offsets := justify(n.Justify, free, len(b.children))

	y := iy + offsets.start
	for _, c := range b.children {
		ch := c.h
		if c.node.Grow {
			ch += extra
		}
		x := ix
		switch n.Align {
		case render.CrossCenter:
			x = ix + (iw-c.w)/2
		case render.CrossEnd:
			x = ix + iw - c.w
		}
		l.place(c, x, y, ch)
		y += ch + gap + offsets.between
	}
}

func (l *layouter) placeRow(b *box, ix, iy, iw, ih float64) {
	n := b.node
	gap := l.px(n.Gap)
	if n.Wrap {
		l.placeWrapped(b, ix, iy, iw, gap)
		return
	}
	used := 0.0
	for i, c := range b.children {
		if i > 0 {
			used += gap
		}
		used += c.w
	}
	offsets := justify(n.Justify, math.Max(0, iw-used), len(b.children))
	x := ix + offsets.start
	for _, c := range b.children {
		y := iy
		h := c.h
		switch n.Align {
		case render.CrossCenter:
			y = iy + (ih-c.h)/2
		case render.CrossEnd:
			y = iy + ih - c.h
		case render.CrossStretch:
			if c.node.Kind != render.KindText {
				h = ih
			}
		}
		l.place(c, x, y, h)
		x += c.w + gap + offsets.between
	}
}

func (l *layouter) placeWrapped(b *box, ix, iy, iw, gap float64) {
	n := b.node
	var rows [][]*box
	var rowW float64
	for _, c := range b.children {
		if len(rows) == 0 || (len(rows[len(rows)-1]) > 0 && rowW+gap+c.w > iw) {
			rows = append(rows, nil)
			rowW = 0
		}
		if len(rows[len(rows)-1]) > 0 {
			rowW += gap
		}
		rowW += c.w
		rows[len(rows)-1] = append(rows[len(rows)-1], c)
	}
	y := iy
	for _, row := range rows {
		w, h := 0.0, 0.0
		for i, c := range row {
			if i > 0 {
				w += gap
			}
			w += c.w
			h = math.Max(h, c.h)
		}
		offsets := justify(n.Justify, math.Max(0, iw-w), len(row))
		x := ix + offsets.start
		for _, c := range row {
			l.place(c, x, y, c.h)
			x += c.w + gap + offsets.between
		}
		y += h + gap
	}
}

func (l *layouter) placeGrid(b *box, ix, iy float64) {
	n := b.node
	cols := max(1, n.Columns)
	gap := l.px(n.Gap)
	y := iy
	for start := 0; start < len(b.children); start += cols {
		end := min(start+cols, len(b.children))
		rowH := 0.0
		for _, c := range b.children[start:end] {
			rowH = math.Max(rowH, c.h)
		}
		x := ix
		for _, c := range b.children[start:end] {
			h := c.h
			if n.Align == render.CrossStretch {
				h = rowH
			}
			l.place(c, x, y, h)
			x += c.w + gap
		}
		y += rowH + gap
	}
}

type spacing struct{ start, between float64 }

func justify(j render.Justify, free float64, count int) spacing {
	switch j {
	case render.JustifyCenter:
		return spacing{start: free / 2}
	case render.JustifyEnd:
		return spacing{start: free}
	case render.JustifyBetween:
		if count > 1 {
			return spacing{between: free / float64(count-1)}
		}
	}
	return spacing{}
}

// lineX returns where a line starts inside a text box of width w.
func lineX(align menu.Align, w, lineW float64) float64 {
	switch align {
	case menu.AlignCenter:
		return (w - lineW) / 2
	case menu.AlignRight:
		return w - lineW
	}
	return 0
}
