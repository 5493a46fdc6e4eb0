package png

import (
	"bytes"
	"errors"
	"io"
)

// AssembleImageData concatenates the IDAT payloads that follow the header, in
// stream order, stopping at IEND. Ancillary and other unknown chunks are skipped.
func AssembleImageData(cr *ChunkReader) ([]byte, error) {
	var buf bytes.Buffer
	seen := 0
	for {
		c, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return nil, formatError(MissingEnd, "stream ended after %d bytes", cr.Offset())
		}
		if err != nil {
			return nil, err
		}

		switch c.Kind {
		case KindImageData:
			buf.Write(c.Data)
			seen++
		case KindEnd:
			if seen == 0 {
				return nil, ErrMissingImageData
			}
			return buf.Bytes(), nil
		case KindHeader:
			return nil, formatError(ChunkOrder, "IHDR after the first chunk")
		default:
			// Passed over by length, payload discarded.
		}
	}
}
