package png

import (
	"fmt"
	"image"
	"image/color"
)

// PackRGBA packs a pixel into a uint32 as 0xAABBGGRR.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// Packed returns one packed RGBA value per pixel. Pixels without an alpha
// sample are opaque. Indexed images cannot be packed without their palette.
func (img *Image) Packed() ([]uint32, error) {
	bpp := img.Metadata.BytesPerPixel()
	ct := ColorType(img.Metadata.ColorType)
	if ct == Indexed || bpp == 0 {
		return nil, &UnsupportedFeatureError{Feature: fmt.Sprintf("packing %s pixels", ct)}
	}

	out := make([]uint32, len(img.Pix)/bpp)
	for i := range out {
		p := img.Pix[i*bpp : (i+1)*bpp]
		switch ct {
		case Grayscale:
			out[i] = PackRGBA(p[0], p[0], p[0], 0xff)
		case GrayscaleAlpha:
			out[i] = PackRGBA(p[0], p[0], p[0], p[1])
		case Truecolor:
			out[i] = PackRGBA(p[0], p[1], p[2], 0xff)
		case TruecolorAlpha:
			out[i] = PackRGBA(p[0], p[1], p[2], p[3])
		}
	}
	return out, nil
}

// ToImage converts the decoded buffer into an image.Image for the standard
// library and the processing stages.
func (img *Image) ToImage() (image.Image, error) {
	w, h := int(img.Metadata.Width), int(img.Metadata.Height)
	bounds := image.Rect(0, 0, w, h)

	switch ColorType(img.Metadata.ColorType) {
	case Grayscale:
		gray := image.NewGray(bounds)
		copy(gray.Pix, img.Pix)
		return gray, nil
	case TruecolorAlpha:
		nrgba := image.NewNRGBA(bounds)
		copy(nrgba.Pix, img.Pix)
		return nrgba, nil
	}

	packed, err := img.Packed()
	if err != nil {
		return nil, err
	}
	nrgba := image.NewNRGBA(bounds)
	for i, c := range packed {
		r, g, b, a := UnpackRGBA(c)
		nrgba.SetNRGBA(i%w, i/w, color.NRGBA{R: r, G: g, B: b, A: a})
	}
	return nrgba, nil
}
