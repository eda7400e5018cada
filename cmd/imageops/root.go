package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/imageops/backend/cpu"
)

// options holds the flags shared by every subcommand.
type options struct {
	verbose    bool
	workers    int
	sequential bool

	logger *slog.Logger
}

// backend builds a CPU backend honoring --workers and --sequential.
func (o *options) backend() *cpu.Backend {
	cfg := cpu.DefaultConfig()
	if o.workers > 0 {
		cfg = cfg.WithWorkers(o.workers)
	}
	if o.sequential {
		cfg = cpu.SequentialConfig()
	}
	o.logger.Debug("backend configured",
		"parallel", cfg.Enabled, "workers", cfg.NumWorkers, "min_chunk", cfg.MinChunkSize)
	return cpu.NewWithConfig(cfg)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "imageops",
		Short: "imageops resamples images and image tensors",
		Long: `imageops resizes images with bilinear or nearest-neighbor sampling and
extracts resized crops from normalized boxes. Inputs and outputs are image
files (png, jpeg, bmp, tiff; gif and webp are read only) or SafeTensors files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.workers < 0 {
				return fmt.Errorf("--workers must be >= 0, got %d", opts.workers)
			}
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.IntVar(&opts.workers, "workers", 0, "Maximum worker goroutines (0 = GOMAXPROCS)")
	flags.BoolVar(&opts.sequential, "sequential", false, "Run every operation on a single goroutine")

	root.AddCommand(newVersionCmd(), newResizeCmd(opts), newCropCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "imageops %s\n", version)
		},
	}
}
