package png

import (
	"io"

	"github.com/rs/zerolog"
)

// Cap on the output buffer preallocated from header dimensions, which are untrusted.
const maxSizeHint = 64 << 20

// Image is the result of a successful decode: the header and the reconstructed
// pixels, row-major, BytesPerPixel bytes per pixel, no filter bytes.
type Image struct {
	Metadata ImageMetadata
	Pix      []byte
}

type Decoder struct {
	decompressor Decompressor
	logger       zerolog.Logger
}

type Option func(*Decoder)

// WithDecompressor replaces the default zlib decompressor.
func WithDecompressor(d Decompressor) Option {
	return func(dec *Decoder) {
		dec.decompressor = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(dec *Decoder) {
		dec.logger = logger
	}
}

func NewDecoder(opts ...Option) *Decoder {
	dec := &Decoder{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(dec)
	}
	return dec
}

// Decode reads a whole PNG stream. Decoding is all or nothing: on error the
// returned image is nil.
func (dec *Decoder) Decode(r io.Reader) (*Image, error) {
	cr := NewChunkReader(r)
	meta, err := dec.readHeader(cr)
	if err != nil {
		return nil, err
	}

	compressed, err := AssembleImageData(cr)
	if err != nil {
		return nil, err
	}
	dec.logger.Debug().
		Int("compressed", len(compressed)).
		Int64("offset", cr.Offset()).
		Msg("assembled image data")

	decompressor := dec.decompressor
	if decompressor == nil {
		want := int(meta.Height) * meta.RowSize()
		decompressor = ZlibDecompressor{SizeHint: min(want, maxSizeHint), Limit: want}
	}
	filtered, err := decompressor.Decompress(compressed)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}

	pix, err := Reconstruct(filtered, int(meta.Width), int(meta.Height), meta.BytesPerPixel())
	if err != nil {
		return nil, err
	}
	dec.logger.Debug().
		Uint32("width", meta.Width).
		Uint32("height", meta.Height).
		Int("bytes", len(pix)).
		Msg("reconstructed scanlines")

	return &Image{Metadata: meta, Pix: pix}, nil
}

// DecodeConfig reads only as far as the header.
func (dec *Decoder) DecodeConfig(r io.Reader) (ImageMetadata, error) {
	return dec.readHeader(NewChunkReader(r))
}

func (dec *Decoder) readHeader(cr *ChunkReader) (ImageMetadata, error) {
	if err := cr.ReadSignature(); err != nil {
		return ImageMetadata{}, err
	}

	first, err := cr.Next()
	if err == io.EOF {
		return ImageMetadata{}, formatError(MissingHeader, "no chunks after signature")
	}
	if err != nil {
		return ImageMetadata{}, err
	}

	meta, err := ParseHeader(first)
	if err != nil {
		return ImageMetadata{}, err
	}
	dec.logger.Debug().
		Uint32("width", meta.Width).
		Uint32("height", meta.Height).
		Stringer("colorType", ColorType(meta.ColorType)).
		Msg("parsed header")
	return meta, nil
}

// Decode decodes r with the default zlib decompressor.
func Decode(r io.Reader) (*Image, error) {
	return NewDecoder().Decode(r)
}

func DecodeConfig(r io.Reader) (ImageMetadata, error) {
	return NewDecoder().DecodeConfig(r)
}
