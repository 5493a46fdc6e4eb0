package stage

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/png-decoder/internal/png"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur with the given Sigma; zero leaves the image untouched.
func (s *GaussianBlurStage) Process(p *png.PngImage) error {
	if s.Sigma < 0 {
		return fmt.Errorf("blur sigma must not be negative, got %v", s.Sigma)
	}
	if s.Sigma == 0 {
		return nil
	}
	p.Img = blur.Gaussian(p.Img, s.Sigma)
	return nil
}
