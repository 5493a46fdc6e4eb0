package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rm-hull/png-decoder/internal"
	"github.com/rm-hull/png-decoder/internal/png"
)

// Inspect lists the chunks of a PNG without decompressing anything.
func Inspect(source internal.SourceClient, location string, w io.Writer) error {
	in, err := source.Open(location)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	cr := png.NewChunkReader(in)
	if err := cr.ReadSignature(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "OFFSET\tTAG\tKIND\tLENGTH\tCRITICAL")
	for {
		offset := cr.Offset()
		c, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = tw.Flush()
			return fmt.Errorf("failed to read chunk at offset %d: %w", offset, err)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%t\n", offset, c.TagString(), c.Kind, c.Length, c.Critical())

		if c.Kind == png.KindHeader {
			meta, err := png.ParseHeader(c)
			summary := fmt.Sprintf("%dx%d %s, %d-bit", meta.Width, meta.Height, png.ColorType(meta.ColorType), meta.BitDepth)
			if err != nil {
				summary += " (" + err.Error() + ")"
			}
			_, _ = fmt.Fprintf(tw, "\t\t%s\t\t\n", summary)
		}
	}
	return tw.Flush()
}
