package internal

import (
	"github.com/rm-hull/png-decoder/internal/png"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartCron converts any new PNGs in inDir on the given schedule. Outputs that
// already exist are skipped, so each run only picks up new arrivals.
func StartCron(schedule, inDir, outDir, format string, poolSize int, pipeline ...png.PipelineStage) (*cron.Cron, error) {
	c := newCron()

	log.Info().Str("schedule", schedule).Str("dir", inDir).Msg("Starting CRON job to convert files")
	_, err := c.AddFunc(schedule, func() {
		ConvertOnce(inDir, outDir, format, poolSize, pipeline...)
	})

	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// newCron skips a tick while the previous conversion is still running, so two
// runs never race on the same output file.
func newCron() *cron.Cron {
	return cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
}

func ConvertOnce(inDir, outDir, format string, poolSize int, pipeline ...png.PipelineStage) []error {
	converter, err := NewConverter(inDir, outDir, format, poolSize, pipeline...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create converter")
		return []error{err}
	}

	errs := converter.Run()
	for _, err := range errs {
		log.Error().Err(err).Msg("Conversion failed")
	}
	return errs
}
