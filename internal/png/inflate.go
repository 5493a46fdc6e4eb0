package png

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// A Decompressor inflates the concatenated IDAT payload into the filtered scanline stream.
type Decompressor interface {
	Decompress(src []byte) ([]byte, error)
}

type DecompressorFunc func(src []byte) ([]byte, error)

func (f DecompressorFunc) Decompress(src []byte) ([]byte, error) {
	return f(src)
}

// ZlibDecompressor inflates a zlib stream. SizeHint, when positive, preallocates
// the output buffer. Limit, when positive, stops inflating after Limit+1 bytes so
// that an oversized stream is returned one byte too long instead of in full.
// The decoder sets both from the image header.
type ZlibDecompressor struct {
	SizeHint int
	Limit    int
}

func (z ZlibDecompressor) Decompress(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	var in io.Reader = r
	if z.Limit > 0 {
		in = io.LimitReader(r, int64(z.Limit)+1)
	}

	var out bytes.Buffer
	if z.SizeHint > 0 {
		out.Grow(z.SizeHint)
	}
	if _, err := io.Copy(&out, in); err != nil {
		return nil, fmt.Errorf("failed to inflate: %w", err)
	}
	return out.Bytes(), nil
}
