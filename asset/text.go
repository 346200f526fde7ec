package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
	"vector-engine/resource"
)

// missingGlyphAdvance is the cursor advance, in font units, for runes the
// font does not contain.
const missingGlyphAdvance = 20

// ErrInvalidFont is returned for font descriptors that cannot be parsed.
var ErrInvalidFont = errors.New("invalid font descriptor")

// Glyph places one character in a font atlas. Offset, Width, Height and
// Advance are in font units; TopLeft and BottomRight are texture coordinates.
type Glyph struct {
	Offset      mgl32.Vec2
	TopLeft     mgl32.Vec2
	BottomRight mgl32.Vec2
	Width       float32
	Height      float32
	Advance     float32
}

// FontData is a glyph atlas and its metrics.
type FontData struct {
	Texture gpu.Texture
	Glyphs  map[rune]Glyph
}

// LoadFontFile parses a text BMFont descriptor. resolution is the atlas size
// in pixels, used to normalize texture coordinates.
func LoadFontFile(path string, resolution int) (*FontData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open font %q: %w", path, err)
	}
	defer f.Close()
	return ParseFont(f, resolution)
}

// ParseFont reads the "char" lines of a text BMFont descriptor.
func ParseFont(r io.Reader, resolution int) (*FontData, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution %d", ErrInvalidFont, resolution)
	}
	res := float32(resolution)
	font := &FontData{Glyphs: map[rune]Glyph{}}

	scanner := bufio.NewScanner(r)
	declared := -1
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "chars":
			declared = keyValues(fields[1:])["count"]
		case "char":
			kv := keyValues(fields[1:])
			id, ok := kv["id"]
			if !ok {
				return nil, fmt.Errorf("%w: char without id", ErrInvalidFont)
			}
			x, y := float32(kv["x"])/res, float32(kv["y"])/res
			w, h := float32(kv["width"]), float32(kv["height"])
			font.Glyphs[rune(id)] = Glyph{
				Offset:      mgl32.Vec2{float32(kv["xoffset"]), float32(kv["yoffset"])},
				TopLeft:     mgl32.Vec2{x, y},
				BottomRight: mgl32.Vec2{x + w/res, y + h/res},
				Width:       w,
				Height:      h,
				Advance:     float32(kv["xadvance"]),
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan font: %w", err)
	}
	if declared < 0 {
		return nil, fmt.Errorf("%w: missing chars count", ErrInvalidFont)
	}
	return font, nil
}

func keyValues(fields []string) map[string]int {
	kv := make(map[string]int, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			// Non-numeric attributes such as letter="a" are ignored.
			continue
		}
		kv[k] = n
	}
	return kv
}

// TextMesh lays text out as one quad per glyph, left to right from the
// origin with +Y up. A newline returns the cursor to x=0 and moves down
// lineHeight*fontSize. Runes missing from the font leave a gap.
func TextMesh(text string, font *FontData, fontSize, lineHeight float32) resource.MeshData {
	var d resource.MeshData
	cursor := float32(0)
	line := 0

	for _, r := range text {
		if r == '\n' {
			cursor = 0
			line++
			continue
		}
		g, ok := font.Glyphs[r]
		if !ok {
			cursor += missingGlyphAdvance * fontSize
			continue
		}

		base := uint32(len(d.Positions))
		d.Indices = append(d.Indices, base, base+1, base+2, base+2, base+3, base)

		left := cursor + g.Offset[0]*fontSize
		right := left + g.Width*fontSize
		top := -float32(line)*lineHeight*fontSize - g.Offset[1]*fontSize
		bottom := top - g.Height*fontSize
		d.Positions = append(d.Positions,
			mgl32.Vec3{left, top, 0},
			mgl32.Vec3{left, bottom, 0},
			mgl32.Vec3{right, bottom, 0},
			mgl32.Vec3{right, top, 0},
		)
		d.TexCoords = append(d.TexCoords,
			g.TopLeft,
			mgl32.Vec2{g.TopLeft[0], g.BottomRight[1]},
			g.BottomRight,
			mgl32.Vec2{g.BottomRight[0], g.TopLeft[1]},
		)

		cursor += g.Advance * fontSize
	}
	return d
}

// RegenerateText uploads the layout of text into mesh, reusing its vertex
// array when mesh is non-nil. Text with no visible glyphs replaces an
// existing mesh with a zero-area quad so nothing of the previous text is
// drawn; without an existing mesh it fails with ErrNoGeometry.
func RegenerateText(reg *resource.Registry, text string, font *FontData, mesh *resource.Mesh, fontSize, lineHeight float32) (*resource.Mesh, error) {
	d := TextMesh(text, font, fontSize, lineHeight)
	if len(d.Indices) == 0 {
		if mesh == nil {
			return nil, fmt.Errorf("text %q: %w", text, ErrNoGeometry)
		}
		d = blankText()
	}
	return reg.LoadMeshData2D(d.Positions, d.Indices, d.TexCoords, mesh)
}

// blankText is a single quad collapsed onto the origin, laid out like the
// quads of TextMesh.
func blankText() resource.MeshData {
	return resource.MeshData{
		Positions: make([]mgl32.Vec3, 4),
		Indices:   []uint32{0, 1, 2, 2, 3, 0},
		TexCoords: make([]mgl32.Vec2, 4),
	}
}
