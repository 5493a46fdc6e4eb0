package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

func chunkBytes(tag string, data []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(tag)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(tag))
	crc.Write(data)
	_ = binary.Write(&buf, binary.BigEndian, crc.Sum32())
	return buf.Bytes()
}

func headerData(width, height uint32, depth, colorType, compression, filter, interlace uint8) []byte {
	d := make([]byte, 13)
	binary.BigEndian.PutUint32(d[0:4], width)
	binary.BigEndian.PutUint32(d[4:8], height)
	d[8], d[9], d[10], d[11], d[12] = depth, colorType, compression, filter, interlace
	return d
}

func pngBytes(chunks ...[]byte) []byte {
	out := []byte(pngSignature)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

var identity = DecompressorFunc(func(src []byte) ([]byte, error) {
	return src, nil
})

// filterRow is the forward transform used by encoders; the decoder never needs it.
func filterRow(ft FilterType, row, prev []byte, bpp int) []byte {
	out := make([]byte, len(row))
	for i := range row {
		var a, b, c uint8
		if i >= bpp {
			a = row[i-bpp]
			c = prev[i-bpp]
		}
		b = prev[i]
		switch ft {
		case FilterNone:
			out[i] = row[i]
		case FilterSub:
			out[i] = row[i] - a
		case FilterUp:
			out[i] = row[i] - b
		case FilterAverage:
			out[i] = row[i] - uint8((int(a)+int(b))/2)
		case FilterPaeth:
			out[i] = row[i] - paethPredictor(a, b, c)
		}
	}
	return out
}
