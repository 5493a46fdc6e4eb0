package png

import (
	"encoding/binary"
	"fmt"
	"math"
)

const headerLength = 13

type ColorType uint8

const (
	Grayscale      ColorType = 0
	Truecolor      ColorType = 2
	Indexed        ColorType = 3
	GrayscaleAlpha ColorType = 4
	TruecolorAlpha ColorType = 6
)

func (ct ColorType) String() string {
	switch ct {
	case Grayscale:
		return "grayscale"
	case Truecolor:
		return "truecolor"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case TruecolorAlpha:
		return "truecolor+alpha"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(ct))
	}
}

// channels is the number of samples per pixel; zero for anything not defined by the format.
func (ct ColorType) channels() int {
	switch ct {
	case Grayscale, Indexed:
		return 1
	case GrayscaleAlpha:
		return 2
	case Truecolor:
		return 3
	case TruecolorAlpha:
		return 4
	default:
		return 0
	}
}

type ImageMetadata struct {
	Width             uint32 `json:"width"`
	Height            uint32 `json:"height"`
	BitDepth          uint8  `json:"bitDepth"`
	ColorType         uint8  `json:"colorType"`
	CompressionMethod uint8  `json:"compressionMethod"`
	FilterMethod      uint8  `json:"filterMethod"`
	InterlaceMethod   uint8  `json:"interlaceMethod"`
}

// BytesPerPixel assumes 8 bits per sample, the only depth ParseHeader accepts.
func (m ImageMetadata) BytesPerPixel() int {
	return ColorType(m.ColorType).channels()
}

// RowSize is the length of one filtered scanline, including its leading filter byte.
func (m ImageMetadata) RowSize() int {
	return 1 + int(m.Width)*m.BytesPerPixel()
}

// PixelBytes is the size of the reconstructed buffer.
func (m ImageMetadata) PixelBytes() int {
	return int(m.Height) * int(m.Width) * m.BytesPerPixel()
}

// ParseHeader interprets the payload of the first chunk of the stream, which must be IHDR.
func ParseHeader(c *Chunk) (ImageMetadata, error) {
	var m ImageMetadata
	if c == nil || c.Kind != KindHeader {
		tag := "none"
		if c != nil {
			tag = c.TagString()
		}
		return m, formatError(MissingHeader, "first chunk is %s", tag)
	}
	if len(c.Data) != headerLength {
		return m, formatError(InvalidHeader, "IHDR length %d", len(c.Data))
	}

	d := c.Data
	m.Width = binary.BigEndian.Uint32(d[0:4])
	m.Height = binary.BigEndian.Uint32(d[4:8])
	m.BitDepth = d[8]
	m.ColorType = d[9]
	m.CompressionMethod = d[10]
	m.FilterMethod = d[11]
	m.InterlaceMethod = d[12]

	if m.Width == 0 || m.Height == 0 || m.Width > maxChunkLength || m.Height > maxChunkLength {
		return m, formatError(InvalidDimensions, "%dx%d", m.Width, m.Height)
	}
	if m.CompressionMethod != 0 {
		return m, formatError(InvalidHeader, "compression method %d", m.CompressionMethod)
	}
	if m.FilterMethod != 0 {
		return m, formatError(InvalidHeader, "filter method %d", m.FilterMethod)
	}
	if ColorType(m.ColorType).channels() == 0 {
		return m, formatError(InvalidHeader, "color type %d", m.ColorType)
	}
	if m.InterlaceMethod != 0 {
		return m, &UnsupportedFeatureError{Feature: fmt.Sprintf("interlace method %d", m.InterlaceMethod)}
	}
	if m.BitDepth != 8 {
		return m, &UnsupportedFeatureError{Feature: fmt.Sprintf("bit depth %d", m.BitDepth)}
	}

	// The filtered stream, and so the reconstructed buffer, must be addressable as a single slice.
	rowSize := uint64(m.Width)*uint64(m.BytesPerPixel()) + 1
	if rowSize > uint64(math.MaxInt)/uint64(m.Height) {
		return m, &UnsupportedFeatureError{Feature: fmt.Sprintf("dimensions %dx%d overflow", m.Width, m.Height)}
	}
	return m, nil
}
