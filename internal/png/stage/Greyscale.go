package stage

import (
	"image"
	"image/color"

	"github.com/rm-hull/png-decoder/internal/png"
)

type GreyscaleStage struct{}

// Process converts the image to 8-bit greyscale using the luma coefficients.
// Alpha is discarded; a fully transparent pixel becomes black.
func (s *GreyscaleStage) Process(p *png.PngImage) error {
	if _, ok := p.Img.(*image.Gray); ok {
		return nil
	}
	gs := image.NewGray(p.Bounds)
	for y := p.Bounds.Min.Y; y < p.Bounds.Max.Y; y++ {
		for x := p.Bounds.Min.X; x < p.Bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(p.Img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			// Reference: https://en.wikipedia.org/wiki/Grayscale#Luma_coding_in_video_systems
			lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			gs.SetGray(x, y, color.Gray{Y: uint8(lum + 0.5)})
		}
	}
	p.Img = gs
	return nil
}
