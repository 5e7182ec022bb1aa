package raster

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
)

// QRPainter draws a code for url into r.
type QRPainter interface {
	Paint(dst draw.Image, r image.Rectangle, url string, fg, bg color.Color)
}

// PlaceholderQR draws a QR-shaped mark: three finder patterns and a module
// field derived from the URL. It is a visual stand-in and does not scan.
type PlaceholderQR struct{}

const qrModules = 25

func (PlaceholderQR) Paint(dst draw.Image, r image.Rectangle, url string, fg, bg color.Color) {
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)

	// One quiet module on every side.
	cell := min(r.Dx(), r.Dy()) / (qrModules + 2)
	if cell == 0 {
		return
	}
	origin := r.Min.Add(image.Pt(cell, cell))
	on := image.NewUniform(fg)
	module := func(x, y int) {
		m := image.Rect(x*cell, y*cell, (x+1)*cell, (y+1)*cell).Add(origin)
		draw.Draw(dst, m, on, image.Point{}, draw.Src)
	}

	finder := func(ox, oy int) {
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				edge := x == 0 || y == 0 || x == 6 || y == 6
				core := x >= 2 && x <= 4 && y >= 2 && y <= 4
				if edge || core {
					module(ox+x, oy+y)
				}
			}
		}
	}
	finder(0, 0)
	finder(qrModules-7, 0)
	finder(0, qrModules-7)

	reserved := func(x, y int) bool {
		inCorner := func(cx, cy int) bool { return x >= cx && x < cx+8 && y >= cy && y < cy+8 }
		return inCorner(0, 0) || inCorner(qrModules-8, 0) || inCorner(0, qrModules-8)
	}

	h := fnv.New64a()
	h.Write([]byte(url))
	seed := h.Sum64()
	for y := 0; y < qrModules; y++ {
		for x := 0; x < qrModules; x++ {
			if reserved(x, y) {
				continue
			}
			// xorshift keeps the field stable for a given url.
			seed ^= seed << 13
			seed ^= seed >> 7
			seed ^= seed << 17
			if seed&1 == 1 {
				module(x, y)
			}
		}
	}
}
