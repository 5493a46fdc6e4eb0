package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	stdpng "image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/png-decoder/internal"
	"github.com/rm-hull/png-decoder/internal/png"
	"github.com/rm-hull/png-decoder/internal/png/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * x), G: uint8(10 * y), B: 7, A: uint8(200 + x)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, stdpng.Encode(&buf, img))
	return buf.Bytes()
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, png.NewDecoder())
	return r
}

func TestDecodeEndpoint(t *testing.T) {
	data := encodeTestPNG(t, 3, 2)

	t.Run("json metadata", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/decode", bytes.NewReader(data))
		newTestRouter().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp DecodeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, uint32(3), resp.Width)
		assert.Equal(t, uint32(2), resp.Height)
		assert.Equal(t, "truecolor+alpha", resp.ColorTypeName)
		assert.Equal(t, 4, resp.BytesPerPixel)
		assert.Equal(t, 24, resp.PixelBytes)
	})

	t.Run("raw pixels", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/decode?format=raw", bytes.NewReader(data))
		newTestRouter().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
		assert.Equal(t, "3", w.Header().Get("X-Image-Width"))
		assert.Equal(t, "2", w.Header().Get("X-Image-Height"))
		assert.Equal(t, "4", w.Header().Get("X-Image-Bytes-Per-Pixel"))
		assert.Equal(t, []byte{0, 0, 7, 200, 10, 0, 7, 201, 20, 0, 7, 202}, w.Body.Bytes()[:12])
	})

	t.Run("unknown format", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/decode?format=bmp", bytes.NewReader(data))
		newTestRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not a png", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/decode", bytes.NewBufferString("hello"))
		newTestRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "bad signature")
	})

	t.Run("truncated png", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/decode", bytes.NewReader(data[:40]))
		newTestRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnsupportedMediaType, statusFor(&png.UnsupportedFeatureError{Feature: "interlace method 1"}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(png.ErrInvalidFilterType))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&png.DecompressionError{Err: assert.AnError}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusFor(&http.MaxBytesError{Limit: 1}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(in, encodeTestPNG(t, 4, 4), 0644))
	source := internal.NewSourceClient("")

	t.Run("metadata only", func(t *testing.T) {
		assert.NoError(t, Decode(source, in, ""))
	})

	t.Run("writes ppm", func(t *testing.T) {
		out := filepath.Join(dir, "out.ppm")
		require.NoError(t, Decode(source, in, out))
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("P6\n4 4\n255\n")))
		assert.Len(t, data, len("P6\n4 4\n255\n")+4*4*3)
	})

	t.Run("writes scaled greyscale png", func(t *testing.T) {
		out := filepath.Join(dir, "out.png")
		require.NoError(t, Decode(source, in, out, &stage.GreyscaleStage{}, &stage.ScaleStage{Factor: 0.5}))

		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		cfg, err := stdpng.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Width)
		assert.Equal(t, color.GrayModel, cfg.ColorModel)
	})

	t.Run("indexed image without output", func(t *testing.T) {
		palette := make(color.Palette, 256)
		for i := range palette {
			palette[i] = color.Gray{Y: uint8(i)}
		}
		paletted := image.NewPaletted(image.Rect(0, 0, 3, 2), palette)
		paletted.SetColorIndex(1, 1, 200)
		var buf bytes.Buffer
		require.NoError(t, stdpng.Encode(&buf, paletted))
		indexed := filepath.Join(dir, "indexed.png")
		require.NoError(t, os.WriteFile(indexed, buf.Bytes(), 0644))

		assert.NoError(t, Decode(source, indexed, ""))

		var unsupportedErr *png.UnsupportedFeatureError
		assert.ErrorAs(t, Decode(source, indexed, filepath.Join(dir, "indexed.ppm")), &unsupportedErr)
	})

	t.Run("unknown output extension", func(t *testing.T) {
		assert.Error(t, Decode(source, in, filepath.Join(dir, "out.gif")))
	})

	t.Run("missing input", func(t *testing.T) {
		assert.Error(t, Decode(source, filepath.Join(dir, "missing.png"), ""))
	})
}

func TestInspect(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, os.WriteFile(in, encodeTestPNG(t, 2, 2), 0644))

	var out bytes.Buffer
	require.NoError(t, Inspect(internal.NewSourceClient(""), in, &out))
	assert.Contains(t, out.String(), "IHDR")
	assert.Contains(t, out.String(), "IDAT")
	assert.Contains(t, out.String(), "IEND")
	assert.Contains(t, out.String(), "2x2 truecolor+alpha, 8-bit")
}
