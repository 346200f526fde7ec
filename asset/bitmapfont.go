package asset

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// BitmapFont rasterizes runes from face into an atlas with one cell per
// rune and returns the atlas with matching glyphs. Every glyph spans the
// full line height so text laid out with lineHeight 1 keeps a common
// baseline. Runes the face lacks are skipped.
func BitmapFont(face font.Face, runes string) (*image.NRGBA, *FontData) {
	m := face.Metrics()
	cellH := (m.Ascent + m.Descent).Ceil()

	var present []rune
	cellW := 1
	for _, r := range runes {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		present = append(present, r)
		cellW = max(cellW, adv.Ceil())
	}

	cols := max(1, int(math.Ceil(math.Sqrt(float64(len(present))))))
	rows := max(1, (len(present)+cols-1)/cols)
	atlas := image.NewNRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	aw, ah := float32(atlas.Rect.Dx()), float32(atlas.Rect.Dy())

	drawer := &font.Drawer{Dst: atlas, Src: image.White, Face: face}
	fd := &FontData{Glyphs: make(map[rune]Glyph, len(present))}
	for i, r := range present {
		x, y := (i%cols)*cellW, (i/cols)*cellH
		drawer.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + m.Ascent}
		drawer.DrawString(string(r))

		adv, _ := face.GlyphAdvance(r)
		w := float32(adv.Ceil())
		fd.Glyphs[r] = Glyph{
			TopLeft:     mgl32.Vec2{float32(x) / aw, float32(y) / ah},
			BottomRight: mgl32.Vec2{(float32(x) + w) / aw, float32(y+cellH) / ah},
			Width:       w,
			Height:      float32(cellH),
			Advance:     w,
		}
	}
	return atlas, fd
}
