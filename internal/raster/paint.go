package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/render"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

var defaultText = color.NRGBA{A: 255}

type frect struct{ x, y, w, h float64 }

func (r frect) inset(d float64) frect {
	return frect{r.x + d, r.y + d, math.Max(0, r.w-2*d), math.Max(0, r.h-2*d)}
}

func (r frect) bounds() image.Rectangle {
	return image.Rect(int(math.Floor(r.x)), int(math.Floor(r.y)),
		int(math.Ceil(r.x+r.w)), int(math.Ceil(r.y+r.h)))
}

// pen translates absolute device coordinates into a rasterizer whose
// origin sits at (ox, oy).
type pen struct {
	z      *vector.Rasterizer
	ox, oy float64
}

func (p pen) move(x, y float64) { p.z.MoveTo(float32(x-p.ox), float32(y-p.oy)) }
func (p pen) line(x, y float64) { p.z.LineTo(float32(x-p.ox), float32(y-p.oy)) }
func (p pen) cube(x1, y1, x2, y2, x, y float64) {
	p.z.CubeTo(float32(x1-p.ox), float32(y1-p.oy), float32(x2-p.ox), float32(y2-p.oy), float32(x-p.ox), float32(y-p.oy))
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5523

// rrect adds a rounded rectangle. reverse winds it the other way so it can
// punch a hole in a shape added before it.
func (p pen) rrect(r frect, radius float64, reverse bool) {
	radius = math.Max(0, math.Min(radius, math.Min(r.w, r.h)/2))
	x0, y0, x1, y1 := r.x, r.y, r.x+r.w, r.y+r.h
	k := radius * kappa
	if !reverse {
		p.move(x0+radius, y0)
		p.line(x1-radius, y0)
		p.cube(x1-radius+k, y0, x1, y0+radius-k, x1, y0+radius)
		p.line(x1, y1-radius)
		p.cube(x1, y1-radius+k, x1-radius+k, y1, x1-radius, y1)
		p.line(x0+radius, y1)
		p.cube(x0+radius-k, y1, x0, y1-radius+k, x0, y1-radius)
		p.line(x0, y0+radius)
		p.cube(x0, y0+radius-k, x0+radius-k, y0, x0+radius, y0)
	} else {
		p.move(x0+radius, y0)
		p.cube(x0+radius-k, y0, x0, y0+radius-k, x0, y0+radius)
		p.line(x0, y1-radius)
		p.cube(x0, y1-radius+k, x0+radius-k, y1, x0+radius, y1)
		p.line(x1-radius, y1)
		p.cube(x1-radius+k, y1, x1, y1-radius+k, x1, y1-radius)
		p.line(x1, y0+radius)
		p.cube(x1, y0+radius-k, x1-radius+k, y0, x1-radius, y0)
		p.line(x0+radius, y0)
	}
	p.z.ClosePath()
}

func (p pen) ring(r frect, radius, width float64) {
	p.rrect(r, radius, false)
	p.rrect(r.inset(width), math.Max(0, radius-width), true)
}

func (p pen) poly(pts [][2]float64) {
	for i, pt := range pts {
		if i == 0 {
			p.move(pt[0], pt[1])
			continue
		}
		p.line(pt[0], pt[1])
	}
	p.z.ClosePath()
}

// gradientImage is a linear gradient laid over a box, in device
// coordinates.
type gradientImage struct {
	g     style.Gradient
	r     frect
	alpha float64
}

func (g *gradientImage) ColorModel() color.Model { return color.NRGBAModel }

func (g *gradientImage) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (g *gradientImage) At(x, y int) color.Color {
	cx := float64(x) + 0.5 - (g.r.x + g.r.w/2)
	cy := float64(y) + 0.5 - (g.r.y + g.r.h/2)
	length := math.Abs(g.g.DX)*g.r.w + math.Abs(g.g.DY)*g.r.h
	t := 0.5
	if length > 0 {
		t += (cx*g.g.DX + cy*g.g.DY) / length
	}
	return style.WithAlpha(g.g.At(t), g.alpha)
}

type painter struct {
	*layouter
	dst *image.RGBA
	qr  QRPainter
	log zerolog.Logger
}

func (p *painter) paint(b *box) {
	if p.ctx.Err() != nil {
		return
	}
	n := b.node
	r := frect{b.x, b.y, b.w, b.h}

	switch n.Kind {
	case render.KindBackground:
		p.image(r, n.Image, render.FitCover, 0, b.opacity)
	case render.KindImage:
		bw := p.px(n.BorderWidth)
		radius := p.clipRadius(n, r)
		p.image(r.inset(bw), n.Image, n.Fit, math.Max(0, radius-bw), b.opacity)
		if bw > 0 {
			p.ring(r, radius, bw, n.Border, b.opacity)
		}
	case render.KindText:
		p.text(b)
	case render.KindQR:
		p.qr.Paint(p.dst, r.bounds(), n.Text, color.Black, color.White)
	default:
		radius := p.px(n.Radius)
		p.fill(r, radius, n.Background, n.Gradient, b.opacity)
		if n.BorderWidth > 0 {
			p.ring(r, radius, p.px(n.BorderWidth), n.Border, b.opacity)
		}
		if f := n.Frame; f != nil {
			p.ring(r.inset(p.px(f.Inset)), p.px(f.Radius), math.Max(1, p.s), f.Color, b.opacity)
		}
	}

	for _, c := range b.children {
		p.paint(c)
	}
	for _, c := range b.pinned {
		p.paint(c)
	}
}

func (p *painter) clipRadius(n *render.Node, r frect) float64 {
	switch n.Clip {
	case render.ClipCircle:
		return math.Min(r.w, r.h) / 2
	case render.ClipRounded:
		return p.px(n.Radius)
	}
	return 0
}

// shape rasterizes build into an alpha mask over r and draws src through
// it. sp is the src point aligned with r's top-left pixel.
func (p *painter) shape(r frect, src image.Image, sp image.Point, opacity float64, build func(pen)) {
	R := r.bounds()
	if R.Empty() || opacity <= 0 {
		return
	}
	z := vector.NewRasterizer(R.Dx(), R.Dy())
	build(pen{z: z, ox: float64(R.Min.X), oy: float64(R.Min.Y)})
	mask := image.NewAlpha(image.Rect(0, 0, R.Dx(), R.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	if opacity < 1 {
		for i, a := range mask.Pix {
			mask.Pix[i] = uint8(float64(a)*opacity + 0.5)
		}
	}
	draw.DrawMask(p.dst, R, src, sp, mask, image.Point{}, draw.Over)
}

func (p *painter) paintFor(r frect, colorStr, gradient string) (image.Image, image.Point, bool) {
	if gradient != "" {
		g, err := style.ParseGradient(gradient)
		if err == nil {
			return &gradientImage{g: g, r: r, alpha: 1}, r.bounds().Min, true
		}
		p.log.Debug().Err(err).Msg("skipping gradient fill")
	}
	if colorStr == "" {
		return nil, image.Point{}, false
	}
	c, err := style.ParseColor(colorStr)
	if err != nil {
		p.log.Debug().Err(err).Str("color", colorStr).Msg("skipping fill")
		return nil, image.Point{}, false
	}
	if c.A == 0 {
		return nil, image.Point{}, false
	}
	return image.NewUniform(c), image.Point{}, true
}

func (p *painter) fill(r frect, radius float64, colorStr, gradient string, opacity float64) {
	src, sp, ok := p.paintFor(r, colorStr, gradient)
	if !ok {
		return
	}
	if _, uniform := src.(*image.Uniform); uniform && radius == 0 && opacity >= 1 {
		draw.Draw(p.dst, r.bounds(), src, sp, draw.Over)
		return
	}
	p.shape(r, src, sp, opacity, func(pn pen) { pn.rrect(r, radius, false) })
}

func (p *painter) ring(r frect, radius, width float64, colorStr string, opacity float64) {
	src, sp, ok := p.paintFor(r, colorStr, "")
	if !ok {
		return
	}
	p.shape(r, src, sp, opacity, func(pn pen) { pn.ring(r, radius, width) })
}

// image draws the image at url into r. A missing image leaves r empty.
func (p *painter) image(r frect, url string, fit render.Fit, radius, opacity float64) {
	if url == "" {
		return
	}
	img, err := p.images.Image(p.ctx, url)
	if err != nil {
		p.log.Debug().Err(err).Str("url", shorten(url)).Msg("image unavailable, leaving its box empty")
		return
	}
	R := r.bounds()
	if R.Empty() {
		return
	}

	var scaled *image.NRGBA
	dest := R
	if fit == render.FitContain {
		ib := img.Bounds()
		k := math.Min(float64(R.Dx())/float64(ib.Dx()), float64(R.Dy())/float64(ib.Dy()))
		w, h := max(1, int(math.Round(float64(ib.Dx())*k))), max(1, int(math.Round(float64(ib.Dy())*k)))
		scaled = imaging.Resize(img, w, h, imaging.Lanczos)
		off := image.Pt((R.Dx()-w)/2, (R.Dy()-h)/2)
		dest = image.Rectangle{Min: R.Min.Add(off), Max: R.Min.Add(off).Add(image.Pt(w, h))}
	} else {
		scaled = imaging.Fill(img, R.Dx(), R.Dy(), imaging.Center, imaging.Lanczos)
	}

	if radius <= 0 && opacity >= 1 {
		draw.Draw(p.dst, dest, scaled, image.Point{}, draw.Over)
		return
	}
	dr := frect{float64(dest.Min.X), float64(dest.Min.Y), float64(dest.Dx()), float64(dest.Dy())}
	p.shape(dr, scaled, image.Point{}, opacity, func(pn pen) { pn.rrect(dr, radius, false) })
}

func (p *painter) textPaint(b *box, r frect) image.Image {
	n := b.node
	c := style.ColorOr(b.color, defaultText)
	if d := n.Style; d != nil {
		switch d.Fill.Kind {
		case style.FillGradient:
			if g, err := style.ParseGradient(d.Fill.Gradient); err == nil {
				return &gradientImage{g: g, r: r, alpha: b.opacity}
			}
		case style.FillColor:
			c = style.ColorOr(d.Fill.Color, c)
		}
	}
	return image.NewUniform(style.WithAlpha(c, b.opacity))
}

func (p *painter) text(b *box) {
	if len(b.lines) == 0 {
		return
	}
	n := b.node
	pt, pr, _, pl := p.pad(n)
	x0 := b.x + pl + p.iconWidth(n)
	w := math.Max(0, b.w-pl-pr-p.iconWidth(n))
	size := p.textSize(n)
	lh := size * lineHeight
	var align menu.Align
	if n.Style != nil {
		align = n.Style.Align
	}

	// The gradient spans the text's own extent, not the whole box.
	textW := 0.0
	for _, ln := range b.lines {
		textW = math.Max(textW, ln.w)
	}
	area := frect{x0 + lineX(align, w, textW), b.y + pt, textW, lh * float64(len(b.lines))}
	src := p.textPaint(b, area)

	for i, ln := range b.lines {
		top := b.y + pt + float64(i)*lh
		x := x0 + lineX(align, w, ln.w)
		if i == 0 && n.Icon != render.IconNone {
			p.icon(n.Icon, frect{x - p.iconWidth(n), top + (lh-size)/2, size, size}, src)
		}
		if len(ln.runs) == 0 {
			continue
		}
		m := ln.runs[0].face.Metrics()
		asc := float64(m.Ascent) / 64
		desc := float64(m.Descent) / 64
		baseline := top + (lh-(asc+desc))/2 + asc
		for _, rn := range ln.runs {
			drawString(p.dst, rn.face, src, x, baseline, rn.text)
			if rn.underline {
				th := math.Max(1, size/16)
				u := frect{x, baseline + th*1.5, rn.w, th}
				draw.Draw(p.dst, u.bounds(), src, u.bounds().Min, draw.Over)
			}
			x += rn.w
		}
	}
}

// drawString draws s with kerning, sampling src at the glyph's own
// position so gradients stay fixed to the text box.
func drawString(dst draw.Image, face font.Face, src image.Image, x, baseline float64, s string) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)}
	prev := rune(-1)
	for _, c := range s {
		if prev >= 0 {
			dot.X += face.Kern(prev, c)
		}
		dr, mask, mp, adv, ok := face.Glyph(dot, c)
		if ok {
			draw.DrawMask(dst, dr, src, dr.Min, mask, mp, draw.Over)
		}
		dot.X += adv
		prev = c
	}
}

// icon draws a small glyph inside the square r.
func (p *painter) icon(ic render.Icon, r frect, src image.Image) {
	cx, cy := r.x+r.w/2, r.y+r.h/2
	u := r.w / 12
	shape := func(build func(pen)) { p.shape(r, src, r.bounds().Min, 1, build) }

	switch ic {
	case render.IconStar:
		shape(func(pn pen) {
			pts := make([][2]float64, 10)
			for i := range pts {
				rad := r.w / 2
				if i%2 == 1 {
					rad *= 0.45
				}
				a := -math.Pi/2 + float64(i)*math.Pi/5
				pts[i] = [2]float64{cx + rad*math.Cos(a), cy + rad*math.Sin(a)}
			}
			pn.poly(pts)
		})
	case render.IconPhone:
		shape(func(pn pen) {
			body := frect{cx - 3*u, r.y + u, 6 * u, 10 * u}
			pn.ring(body, 1.5*u, 1.2*u)
			dot := frect{cx - 0.8*u, r.y + 8.6*u, 1.6 * u, 1.6 * u}
			pn.rrect(dot, 0.8*u, false)
		})
	case render.IconInstagram:
		shape(func(pn pen) {
			pn.ring(frect{r.x + u, r.y + u, 10 * u, 10 * u}, 3*u, 1.2*u)
			pn.ring(frect{cx - 2.5*u, cy - 2.5*u, 5 * u, 5 * u}, 2.5*u, 1.2*u)
			pn.rrect(frect{r.x + 8*u, r.y + 2.6*u, 1.4 * u, 1.4 * u}, 0.7*u, false)
		})
	case render.IconTikTok:
		shape(func(pn pen) {
			pn.rrect(frect{r.x + 2*u, r.y + 6.5*u, 4.5 * u, 4.5 * u}, 2.25*u, false)
			pn.rrect(frect{r.x + 5.3*u, r.y + u, 1.4 * u, 8 * u}, 0, false)
			pn.rrect(frect{r.x + 5.3*u, r.y + u, 4.5 * u, 1.6 * u}, 0.8*u, false)
		})
	case render.IconGlobe:
		shape(func(pn pen) {
			pn.ring(frect{r.x + u, r.y + u, 10 * u, 10 * u}, 5*u, 1.1*u)
			pn.rrect(frect{r.x + u, cy - 0.55*u, 10 * u, 1.1 * u}, 0, false)
			pn.ring(frect{cx - 2.2*u, r.y + u, 4.4 * u, 10 * u}, 2.2*u, 1.1*u)
		})
	case render.IconChevron:
		shape(func(pn pen) {
			pn.poly([][2]float64{
				{r.x + 3*u, r.y + 1.5*u}, {r.x + 9.5*u, cy}, {r.x + 3*u, r.y + 10.5*u},
				{r.x + 1.5*u, r.y + 9*u}, {r.x + 6.5*u, cy}, {r.x + 1.5*u, r.y + 3*u},
			})
		})
	}
}
