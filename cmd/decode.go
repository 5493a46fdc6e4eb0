package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rm-hull/png-decoder/internal"
	"github.com/rm-hull/png-decoder/internal/png"
	"github.com/rs/zerolog/log"
)

// Decode decodes a single PNG from a path or URL, logs its metadata and, when
// output is set, writes the (optionally processed) pixels as PPM or PNG
// depending on the output file extension.
func Decode(source internal.SourceClient, location, output string, pipeline ...png.PipelineStage) error {
	in, err := source.Open(location)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	decoded, err := png.NewDecoder(png.WithLogger(log.Logger)).Decode(in)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}

	meta := decoded.Metadata
	log.Info().
		Str("source", location).
		Uint32("width", meta.Width).
		Uint32("height", meta.Height).
		Uint8("bitDepth", meta.BitDepth).
		Stringer("colorType", png.ColorType(meta.ColorType)).
		Int("bytesPerPixel", meta.BytesPerPixel()).
		Int("pixelBytes", meta.PixelBytes()).
		Msg("Decoded")

	// indexed images decode to raw palette indices, which only need converting when written
	if output == "" {
		return nil
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	if format != "ppm" && format != "png" {
		return fmt.Errorf("output must end in .ppm or .png, got %s", output)
	}

	img, err := png.NewPngImage(decoded)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", location, err)
	}

	if err := img.Pipeline(pipeline...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(output), "decode-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := img.Write(tmpFile, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), output); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	cleanupTemp = false

	log.Info().Str("output", output).Msg("Written")
	return nil
}
