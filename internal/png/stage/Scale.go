package stage

import (
	"fmt"
	"image"

	"github.com/rm-hull/png-decoder/internal/png"
	"golang.org/x/image/draw"
)

// ScaleStage resizes by Factor using Catmull-Rom resampling.
type ScaleStage struct {
	Factor float64
}

func (s *ScaleStage) Process(p *png.PngImage) error {
	if s.Factor <= 0 {
		return fmt.Errorf("scale factor must be positive, got %v", s.Factor)
	}
	if s.Factor == 1 {
		return nil
	}

	w := max(1, int(float64(p.Bounds.Dx())*s.Factor+0.5))
	h := max(1, int(float64(p.Bounds.Dy())*s.Factor+0.5))
	dr := image.Rect(0, 0, w, h)

	var dst draw.Image
	if _, ok := p.Img.(*image.Gray); ok {
		dst = image.NewGray(dr)
	} else {
		dst = image.NewNRGBA(dr)
	}
	draw.CatmullRom.Scale(dst, dr, p.Img, p.Bounds, draw.Src, nil)

	p.Img = dst
	p.Bounds = dr
	return nil
}
