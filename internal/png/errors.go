package png

import (
	"fmt"
)

type FormatErrorKind int

const (
	BadSignature FormatErrorKind = iota + 1
	BadChunkLength
	ChunkOrder
	MissingHeader
	InvalidHeader
	InvalidDimensions
	MissingImageData
	MissingEnd
	TruncatedImageData
	InvalidFilterType
)

var formatErrorKindNames = map[FormatErrorKind]string{
	BadSignature:       "bad signature",
	BadChunkLength:     "bad chunk length",
	ChunkOrder:         "chunk out of order",
	MissingHeader:      "missing header",
	InvalidHeader:      "invalid header",
	InvalidDimensions:  "invalid dimensions",
	MissingImageData:   "missing image data",
	MissingEnd:         "missing end chunk",
	TruncatedImageData: "truncated image data",
	InvalidFilterType:  "invalid filter type",
}

func (k FormatErrorKind) String() string {
	if name, ok := formatErrorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// A FormatError reports that the input is not a valid PNG.
// Two FormatErrors match under errors.Is when their kinds are equal.
type FormatError struct {
	Kind   FormatErrorKind
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "png: invalid format: " + e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	return ok && t.Kind == e.Kind
}

var (
	ErrBadSignature       = &FormatError{Kind: BadSignature}
	ErrBadChunkLength     = &FormatError{Kind: BadChunkLength}
	ErrChunkOrder         = &FormatError{Kind: ChunkOrder}
	ErrMissingHeader      = &FormatError{Kind: MissingHeader}
	ErrInvalidHeader      = &FormatError{Kind: InvalidHeader}
	ErrInvalidDimensions  = &FormatError{Kind: InvalidDimensions}
	ErrMissingImageData   = &FormatError{Kind: MissingImageData}
	ErrMissingEnd         = &FormatError{Kind: MissingEnd}
	ErrTruncatedImageData = &FormatError{Kind: TruncatedImageData}
	ErrInvalidFilterType  = &FormatError{Kind: InvalidFilterType}
)

func formatError(kind FormatErrorKind, format string, args ...any) error {
	return &FormatError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// An UnsupportedFeatureError reports that the input uses a valid but unimplemented PNG feature.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return "png: unsupported feature: " + e.Feature
}

// A TruncatedStreamError reports fewer bytes than a declared length requires.
type TruncatedStreamError struct {
	What string
	Want int64
	Got  int64
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("png: truncated stream: %s: want %d bytes, got %d", e.What, e.Want, e.Got)
}

// DecompressionError wraps whatever the decompressor returned, verbatim.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("png: decompression failed: %v", e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}
