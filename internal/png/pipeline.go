package png

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/rm-hull/png-decoder/internal/ppm"
)

type PngImage struct {
	Img    image.Image
	Bounds image.Rectangle
	Meta   ImageMetadata
}

type PipelineStage interface {
	Process(img *PngImage) error
}

// NewPngFromReader decodes r with dec (the default decoder when nil) and
// converts the pixels for further processing.
func NewPngFromReader(r io.Reader, dec *Decoder) (*PngImage, error) {
	if dec == nil {
		dec = NewDecoder()
	}
	decoded, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewPngImage(decoded)
}

// NewPngImage converts an already decoded buffer for the processing stages.
func NewPngImage(decoded *Image) (*PngImage, error) {
	img, err := decoded.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert decoded pixels: %w", err)
	}
	return &PngImage{
		Img:    img,
		Bounds: img.Bounds(),
		Meta:   decoded.Metadata,
	}, nil
}

// Write encodes the processed image as "png" or "ppm".
func (p *PngImage) Write(w io.Writer, format string) error {
	switch format {
	case "png":
		return png.Encode(w, p.Img)
	case "ppm":
		return ppm.Encode(w, p.Img)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func (p *PngImage) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
