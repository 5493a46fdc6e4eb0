package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rm-hull/png-decoder/cmd"
	"github.com/rm-hull/png-decoder/internal"
	"github.com/rm-hull/png-decoder/internal/config"
	"github.com/rm-hull/png-decoder/internal/png"
	"github.com/rm-hull/png-decoder/internal/png/stage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)

	var (
		port      int
		debug     bool
		output    string
		greyscale bool
		sigma     float64
		scale     float64
		inDir     string
		outDir    string
		format    string
		workers   int
		schedule  string
	)

	pipeline := func() []png.PipelineStage {
		var stages []png.PipelineStage
		if greyscale {
			stages = append(stages, &stage.GreyscaleStage{})
		}
		if sigma != 0 {
			stages = append(stages, &stage.GaussianBlurStage{Sigma: sigma})
		}
		if scale != 1 {
			stages = append(stages, &stage.ScaleStage{Factor: scale})
		}
		return stages
	}
	addStageFlags := func(c *cobra.Command) {
		c.Flags().BoolVar(&greyscale, "greyscale", false, "Convert to greyscale before writing")
		c.Flags().Float64Var(&sigma, "blur", 0, "Gaussian blur sigma (0 disables)")
		c.Flags().Float64Var(&scale, "scale", 1, "Resize factor")
	}

	rootCmd := &cobra.Command{
		Use:          "png-decoder",
		Long:         `Decode PNG raster data into flat pixel buffers`,
		SilenceUsage: true,
	}

	decodeCmd := &cobra.Command{
		Use:   "decode <file|url> [-o <out.ppm|out.png>]",
		Short: "Decode a single PNG and optionally write the pixels out",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Decode(internal.NewSourceClient(cfg.UserAgent), args[0], output, pipeline()...)
		},
	}
	decodeCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.ppm or .png)")
	addStageFlags(decodeCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect <file|url>",
		Short: "List the chunks of a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Inspect(internal.NewSourceClient(cfg.UserAgent), args[0], c.OutOrStdout())
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert-dir --in <dir> --out <dir> [--format ppm|png] [--workers <n>]",
		Short: "Convert every PNG in a directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			if errs := internal.ConvertOnce(inDir, outDir, format, workers, pipeline()...); len(errs) > 0 {
				return fmt.Errorf("%d file(s) failed to convert", len(errs))
			}
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch --in <dir> --out <dir> [--schedule <cron>]",
		Short: "Convert new PNGs in a directory on a schedule",
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := internal.StartCron(schedule, inDir, outDir, format, workers, pipeline()...)
			if err != nil {
				return fmt.Errorf("failed to start cron: %w", err)
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			log.Info().Msg("Shutting down")
			<-c.Stop().Done()
			return nil
		},
	}
	watchCmd.Flags().StringVar(&schedule, "schedule", "*/5 * * * *", "Cron schedule")

	for _, c := range []*cobra.Command{convertCmd, watchCmd} {
		c.Flags().StringVar(&inDir, "in", "./data/in", "Directory of PNG files")
		c.Flags().StringVar(&outDir, "out", "./data/out", "Directory for converted files")
		c.Flags().StringVar(&format, "format", "ppm", "Output format (ppm or png)")
		c.Flags().IntVar(&workers, "workers", 4, "Number of concurrent decoders")
		addStageFlags(c)
	}

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.ApiServer(port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", cfg.Port, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(c *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(c.OutOrStdout(), versioninfo.Short())
		},
	}

	rootCmd.AddCommand(decodeCmd, inspectCmd, convertCmd, watchCmd, apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
