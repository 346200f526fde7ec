package resource

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vector-engine/gpu"
)

// LoadTexture decodes an image file and uploads it with nearest filtering and
// mipmaps. Relative paths are resolved against TextureRoot. Any I/O or
// decode failure is logged and yields the null texture 0.
func (r *Registry) LoadTexture(path string) gpu.Texture {
	img, err := r.decodeImage(path)
	if err != nil {
		logger.Warningf("texture %q: %v", path, err)
		return 0
	}
	return r.UploadImage(img, gpu.FilterNearest, true)
}

func (r *Registry) decodeImage(path string) (image.Image, error) {
	full := path
	if r.TextureRoot != "" && !filepath.IsAbs(path) {
		full = filepath.Join(r.TextureRoot, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// UploadImage converts img to non-premultiplied RGBA8 and uploads it as a new texture.
func (r *Registry) UploadImage(img image.Image, filter gpu.Filter, mipmaps bool) gpu.Texture {
	bounds := img.Bounds()
	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	t := r.CreateTexture()
	r.ctx.UploadTexture(t, gpu.TextureDesc{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Pixels:  rgba.Pix,
		Filter:  filter,
		Mipmaps: mipmaps,
	})
	return t
}
