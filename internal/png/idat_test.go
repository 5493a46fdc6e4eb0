package png

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleImageData(t *testing.T) {
	t.Run("concatenates image data and skips other chunks", func(t *testing.T) {
		stream := bytes.Join([][]byte{
			chunkBytes("IDAT", []byte{1, 2}),
			chunkBytes("gAMA", []byte{0, 0, 0xb1, 0x8f}),
			chunkBytes("IDAT", []byte{3}),
			chunkBytes("IDAT", []byte{4, 5, 6}),
			chunkBytes("IEND", nil),
		}, nil)

		data, err := AssembleImageData(NewChunkReader(bytes.NewReader(stream)))
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, data)
	})

	t.Run("no image data before IEND", func(t *testing.T) {
		stream := bytes.Join([][]byte{
			chunkBytes("tEXt", []byte("a\x00b")),
			chunkBytes("IEND", nil),
		}, nil)

		data, err := AssembleImageData(NewChunkReader(bytes.NewReader(stream)))
		assert.ErrorIs(t, err, ErrMissingImageData)
		assert.Nil(t, data)
	})

	t.Run("stream ends without IEND", func(t *testing.T) {
		stream := chunkBytes("IDAT", []byte{1})
		_, err := AssembleImageData(NewChunkReader(bytes.NewReader(stream)))
		assert.ErrorIs(t, err, ErrMissingEnd)
	})

	t.Run("second header", func(t *testing.T) {
		stream := bytes.Join([][]byte{
			chunkBytes("IHDR", headerData(1, 1, 8, 0, 0, 0, 0)),
			chunkBytes("IEND", nil),
		}, nil)
		_, err := AssembleImageData(NewChunkReader(bytes.NewReader(stream)))
		assert.ErrorIs(t, err, ErrChunkOrder)
	})

	t.Run("truncated chunk is passed through", func(t *testing.T) {
		stream := chunkBytes("IDAT", []byte{1, 2, 3, 4})
		_, err := AssembleImageData(NewChunkReader(bytes.NewReader(stream[:10])))
		var truncErr *TruncatedStreamError
		assert.ErrorAs(t, err, &truncErr)
	})
}
