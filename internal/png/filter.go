package png

import (
	"fmt"
)

type FilterType uint8

const (
	FilterNone FilterType = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
	nFilter
)

func (ft FilterType) Valid() bool {
	return ft < nFilter
}

func (ft FilterType) String() string {
	switch ft {
	case FilterNone:
		return "none"
	case FilterSub:
		return "sub"
	case FilterUp:
		return "up"
	case FilterAverage:
		return "average"
	case FilterPaeth:
		return "paeth"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(ft))
	}
}

// RowReconstructor undoes the per-row filters of a scanline stream. It keeps
// only the current and the previously reconstructed row; before the first row
// the previous row is all zeroes.
type RowReconstructor struct {
	bpp int
	y   int
	cr  []byte
	pr  []byte
}

func NewRowReconstructor(width, bpp int) *RowReconstructor {
	rowBytes := width * bpp
	return &RowReconstructor{
		bpp: bpp,
		cr:  make([]byte, rowBytes),
		pr:  make([]byte, rowBytes),
	}
}

// Unfilter reconstructs one scanline (filter byte followed by width*bpp bytes).
// The returned slice is reused by the next call, so callers must copy it if
// they want to keep it.
func (rr *RowReconstructor) Unfilter(scanline []byte) ([]byte, error) {
	if len(scanline) != len(rr.cr)+1 {
		return nil, &TruncatedStreamError{
			What: fmt.Sprintf("scanline %d", rr.y),
			Want: int64(len(rr.cr) + 1),
			Got:  int64(len(scanline)),
		}
	}

	ft := FilterType(scanline[0])
	if !ft.Valid() {
		return nil, formatError(InvalidFilterType, "filter %d on row %d", scanline[0], rr.y)
	}

	// Swap first so that pr holds the last reconstructed row.
	rr.pr, rr.cr = rr.cr, rr.pr
	cdat, pdat := rr.cr, rr.pr
	copy(cdat, scanline[1:])
	bpp := rr.bpp

	switch ft {
	case FilterNone:
		// No-op.
	case FilterSub:
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += cdat[i-bpp]
		}
	case FilterUp:
		for i, p := range pdat {
			cdat[i] += p
		}
	case FilterAverage:
		// The first pixel has no left neighbour, so a is zero.
		for i := 0; i < bpp && i < len(cdat); i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-bpp]) + int(pdat[i])) / 2)
		}
	case FilterPaeth:
		for i := 0; i < bpp && i < len(cdat); i++ {
			cdat[i] += paethPredictor(0, pdat[i], 0)
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += paethPredictor(cdat[i-bpp], pdat[i], pdat[i-bpp])
		}
	}

	rr.y++
	return cdat, nil
}

// Reconstruct undoes the filters of a whole decompressed stream and returns the
// pixel bytes with the filter bytes stripped. Any failure returns no buffer.
func Reconstruct(data []byte, width, height, bpp int) ([]byte, error) {
	rowSize := 1 + width*bpp
	if want := height * rowSize; len(data) != want {
		return nil, &FormatError{
			Kind:   TruncatedImageData,
			Detail: fmt.Sprintf("%d rows of %d bytes", height, rowSize),
			Err: &TruncatedStreamError{
				What: "decompressed image data",
				Want: int64(want),
				Got:  int64(len(data)),
			},
		}
	}

	out := make([]byte, 0, height*width*bpp)
	rr := NewRowReconstructor(width, bpp)
	for y := 0; y < height; y++ {
		row, err := rr.Unfilter(data[y*rowSize : (y+1)*rowSize])
		if err != nil {
			return nil, err
		}
		out = append(out, row...)
	}
	return out, nil
}

// paethPredictor picks whichever of a (left), b (above) or c (upper left) is
// closest to a+b-c, preferring a, then b, then c on ties.
func paethPredictor(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
