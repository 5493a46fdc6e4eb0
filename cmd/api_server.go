package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/png-decoder/internal"
	"github.com/rm-hull/png-decoder/internal/png"
	"github.com/rs/zerolog/log"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const maxUploadBytes = 64 << 20

type DecodeResponse struct {
	png.ImageMetadata
	ColorTypeName string `json:"colorTypeName"`
	BytesPerPixel int    `json:"bytesPerPixel"`
	PixelBytes    int    `json:"pixelBytes"`
}

func ApiServer(port int, debug bool) {
	internal.ShowVersion()
	internal.UserInfo()
	internal.EnvironmentVars()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		log.Warn().Msg("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize healthcheck")
	}

	RegisterRoutes(r, png.NewDecoder(png.WithLogger(log.Logger)))

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting HTTP API Server")
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Int("port", port).Msg("HTTP API Server failed to start")
	}
}

// RegisterRoutes mounts the decode endpoint. The decoder holds no per-decode
// state so one instance serves all requests.
func RegisterRoutes(r gin.IRouter, dec *png.Decoder) {
	r.POST("/v1/decode", decodeHandler(dec))
}

func decodeHandler(dec *png.Decoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		img, err := dec.Decode(body)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		meta := img.Metadata
		switch c.DefaultQuery("format", "json") {
		case "raw":
			c.Header("X-Image-Width", strconv.FormatUint(uint64(meta.Width), 10))
			c.Header("X-Image-Height", strconv.FormatUint(uint64(meta.Height), 10))
			c.Header("X-Image-Bytes-Per-Pixel", strconv.Itoa(meta.BytesPerPixel()))
			c.Header("X-Image-Color-Type", strconv.Itoa(int(meta.ColorType)))
			c.Data(http.StatusOK, "application/octet-stream", img.Pix)
		case "json":
			c.JSON(http.StatusOK, DecodeResponse{
				ImageMetadata: meta,
				ColorTypeName: png.ColorType(meta.ColorType).String(),
				BytesPerPixel: meta.BytesPerPixel(),
				PixelBytes:    len(img.Pix),
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or raw"})
		}
	}
}

func statusFor(err error) int {
	var (
		maxBytesErr    *http.MaxBytesError
		formatErr      *png.FormatError
		truncErr       *png.TruncatedStreamError
		decompressErr  *png.DecompressionError
		unsupportedErr *png.UnsupportedFeatureError
	)
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &formatErr), errors.As(err, &truncErr), errors.As(err, &decompressErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
