package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// Chunk lengths are limited to 2^31-1 by the PNG format.
const maxChunkLength = 0x7fffffff

type ChunkKind int

const (
	KindOther ChunkKind = iota
	KindHeader
	KindImageData
	KindEnd
)

var (
	tagIHDR = [4]byte{'I', 'H', 'D', 'R'}
	tagIDAT = [4]byte{'I', 'D', 'A', 'T'}
	tagIEND = [4]byte{'I', 'E', 'N', 'D'}
)

// KindOf classifies a chunk tag. Tags other than IHDR, IDAT and IEND are KindOther.
func KindOf(tag [4]byte) ChunkKind {
	switch tag {
	case tagIHDR:
		return KindHeader
	case tagIDAT:
		return KindImageData
	case tagIEND:
		return KindEnd
	default:
		return KindOther
	}
}

func (k ChunkKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindImageData:
		return "image-data"
	case KindEnd:
		return "end"
	default:
		return "other"
	}
}

type Chunk struct {
	Length uint32
	Tag    [4]byte
	Kind   ChunkKind
	Data   []byte
	CRC    [4]byte
}

// Critical reports whether the chunk is marked critical, i.e. the first letter of its tag is upper case.
func (c *Chunk) Critical() bool {
	return c.Tag[0] >= 'A' && c.Tag[0] <= 'Z'
}

func (c *Chunk) TagString() string {
	return string(c.Tag[:])
}

// ChunkReader walks the chunks of a PNG stream. It is forward only: once the
// IEND chunk has been returned every subsequent call to Next returns io.EOF.
type ChunkReader struct {
	r      io.Reader
	offset int64
	done   bool
	tmp    [8]byte
}

func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{r: r}
}

// Offset is the number of bytes consumed from the underlying reader so far.
func (cr *ChunkReader) Offset() int64 {
	return cr.offset
}

func (cr *ChunkReader) ReadSignature() error {
	n, err := io.ReadFull(cr.r, cr.tmp[:len(pngSignature)])
	cr.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return formatError(BadSignature, "short read of %d bytes", n)
		}
		return fmt.Errorf("png: failed to read signature: %w", err)
	}
	if string(cr.tmp[:len(pngSignature)]) != pngSignature {
		return formatError(BadSignature, "not a PNG file")
	}
	return nil
}

func (cr *ChunkReader) Next() (*Chunk, error) {
	if cr.done {
		return nil, io.EOF
	}

	n, err := io.ReadFull(cr.r, cr.tmp[:8])
	cr.offset += int64(n)
	if err == io.EOF {
		// nothing left, and we are sitting exactly on a chunk boundary
		return nil, io.EOF
	}
	if err != nil {
		return nil, truncated("chunk length and type", 8, int64(n), err)
	}

	c := &Chunk{
		Length: binary.BigEndian.Uint32(cr.tmp[:4]),
	}
	copy(c.Tag[:], cr.tmp[4:8])
	c.Kind = KindOf(c.Tag)

	if c.Length > maxChunkLength {
		return nil, formatError(BadChunkLength, "%s chunk declares %d bytes", c.TagString(), c.Length)
	}

	// Grow the payload as bytes arrive rather than trusting the declared length up front.
	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, cr.r, int64(c.Length))
	cr.offset += copied
	if err != nil {
		return nil, truncated(c.TagString()+" chunk data", int64(c.Length), copied, err)
	}
	c.Data = buf.Bytes()

	n, err = io.ReadFull(cr.r, c.CRC[:])
	cr.offset += int64(n)
	if err != nil {
		return nil, truncated(c.TagString()+" chunk checksum", 4, int64(n), err)
	}

	if c.Kind == KindEnd {
		cr.done = true
	}
	return c, nil
}

func truncated(what string, want, got int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncatedStreamError{What: what, Want: want, Got: got}
	}
	return fmt.Errorf("png: failed to read %s: %w", what, err)
}
