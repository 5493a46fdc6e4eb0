package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rm-hull/png-decoder/internal/png"
	"github.com/rs/zerolog/log"
)

// Processor converts every PNG in a directory using a pool of workers. Each
// worker owns its own decoder; nothing is shared between decodes.
type Processor struct {
	startTime time.Time
	endTime   time.Time
	outDir    string
	format    string
	poolSize  int
	jobs      chan string
	results   chan error
	files     []string
	pipeline  []png.PipelineStage
}

func NewConverter(inDir, outDir, format string, poolSize int, pipeline ...png.PipelineStage) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if format != "ppm" && format != "png" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	files, err := filepath.Glob(filepath.Join(inDir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", inDir, err)
	}
	sort.Strings(files)
	log.Info().Str("dir", inDir).Int("files", len(files)).Msg("Found PNG files")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Processor{
		startTime: time.Now(),
		outDir:    outDir,
		format:    format,
		poolSize:  poolSize,
		jobs:      make(chan string),
		results:   make(chan error),
		files:     files,
		pipeline:  pipeline,
	}, nil
}

// DispatchJobs sends every file to the jobs channel for processing by workers.
func (p *Processor) DispatchJobs() {
	go func() {
		for _, file := range p.files {
			p.jobs <- file
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Info().Int("poolSize", p.poolSize).Msg("Starting conversion workers")

	for i := 0; i < p.poolSize; i++ {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Debug().Int("worker", i).Msg("Worker started")
	dec := png.NewDecoder(png.WithLogger(log.With().Int("worker", i).Logger()))
	for file := range p.jobs {
		p.results <- p.processFile(dec, file)
	}
	log.Debug().Int("worker", i).Msg("Worker finished")
}

func (p *Processor) outputName(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(p.outDir, base+"."+p.format)
}

func (p *Processor) processFile(dec *png.Decoder, file string) error {
	filename := p.outputName(file)

	// if the output already exists, skip processing
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	inFile, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer func() {
		_ = inFile.Close()
	}()

	img, err := png.NewPngFromReader(inFile, dec)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", file, err)
	}

	if err := img.Pipeline(p.pipeline...); err != nil {
		return fmt.Errorf("failed to process image pipeline for %s: %w", file, err)
	}

	tmpFile, err := os.CreateTemp(p.outDir, "convert-*.tmp")
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

	if err := img.Write(tmpFile, p.format); err != nil {
		return fmt.Errorf("failed to write converted image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false
	log.Info().Str("file", file).Str("output", filename).Msg("Converted")
	return nil
}

func (p *Processor) Wait() []error {
	log.Info().Int("files", len(p.files)).Msg("Waiting for files to be converted")

	errs := make([]error, 0, 10)
	for range p.files {
		if err := <-p.results; err != nil {
			errs = append(errs, err)
		}
	}
	p.endTime = time.Now()
	log.Info().
		Dur("elapsed", p.endTime.Sub(p.startTime)).
		Int("errors", len(errs)).
		Msg("All files converted")
	return errs
}

// Run dispatches every file and blocks until all of them are done.
func (p *Processor) Run() []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}
