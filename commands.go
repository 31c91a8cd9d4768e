package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/watzon/pigment/color"
	"github.com/watzon/pigment/config"
	"github.com/watzon/pigment/logging"
	"github.com/watzon/pigment/palette"
	"github.com/watzon/pigment/render"
	"github.com/watzon/pigment/schedule"
	"github.com/watzon/pigment/ui"
)

// app carries state shared by every subcommand
type app struct {
	cfg  *config.Config
	seed int64

	outputDir string
	labels    bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pigment",
		Short:         "Generate, lock and export color palettes",
		Long:          "Pigment keeps a palette of five colors. Lock the ones you like, regenerate the rest, and export the result as CSS variables, JSON or a PNG strip.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI()
		},
	}

	root.PersistentFlags().Int64Var(&a.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	root.PersistentFlags().StringVarP(&a.outputDir, "out-dir", "o", "", "Directory for exported files")
	root.PersistentFlags().BoolVar(&a.labels, "labels", false, "Draw hex codes on exported images")

	root.AddCommand(
		&cobra.Command{
			Use:   "ui",
			Short: "Open the interactive palette generator",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runUI()
			},
		},
		a.generateCmd(),
		a.extractCmd(),
		a.scheduleCmd(),
	)

	return root
}

// loadConfig merges flags on top of the file and environment configuration
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.outputDir != "" {
		cfg.WithOutputDir(a.outputDir)
	}
	if cmd.Flags().Changed("labels") {
		cfg.WithLabels(a.labels)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) newController() *palette.Controller {
	seed := a.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return palette.New(rand.New(rand.NewSource(seed)))
}

func (a *app) stderrLogger() (*logrus.Logger, error) {
	return logging.New(a.cfg.Log, os.Stderr)
}

func (a *app) runUI() error {
	log, closer, err := logging.NewFile(a.cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info("starting palette ui")
	return ui.Run(a.newController(), ui.Options{
		OutputDir:      a.cfg.Output.Dir,
		Image:          a.cfg.RenderOptions(),
		CopiedDuration: a.cfg.UI.CopiedDuration,
	}, log)
}

func (a *app) generateCmd() *cobra.Command {
	var (
		format string
		out    string
		locks  []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print or save a single palette",
		Example: `  pigment generate
  pigment generate --format json --lock "#AABBCC"
  pigment generate --format png -o ./assets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(locks) > palette.Size {
				return fmt.Errorf("at most %d colors can be locked, got %d", palette.Size, len(locks))
			}

			ctrl := a.newController()
			for i, hex := range locks {
				c, err := color.HexToRGB(hex)
				if err != nil {
					return err
				}
				if err := ctrl.Set(i, c); err != nil {
					return err
				}
			}

			return a.export(cmd.OutOrStdout(), ctrl.Colors(), format, out, nil)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: css, json or png (default from config)")
	cmd.Flags().StringVar(&out, "file", "", "Write to this file instead of stdout")
	cmd.Flags().StringArrayVar(&locks, "lock", nil, "Pin a hex color to the next slot (repeatable)")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Build a palette from the dominant colors of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.stderrLogger()
			if err != nil {
				return err
			}

			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			img = color.Downscale(img, a.cfg.Extract.MaxSize)

			colors := color.ExtractPalette(img, palette.Size)
			if len(colors) == 0 {
				return fmt.Errorf("failed to extract colors from %s", args[0])
			}

			ctrl := a.newController()
			filled := ctrl.Seed(colors)
			log.WithFields(logrus.Fields{
				"image":     args[0],
				"extracted": len(colors),
				"random":    palette.Size - filled,
			}).Debug("palette seeded from image")

			return a.export(cmd.OutOrStdout(), ctrl.Colors(), format, out, img)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: css, json or png (default from config)")
	cmd.Flags().StringVar(&out, "file", "", "Write to this file instead of stdout")
	return cmd
}

func (a *app) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Regenerate the palette on a cron schedule and write every export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.stderrLogger()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			r := schedule.NewRunner(a.newController(), schedule.Options{
				Spec:      a.cfg.Schedule.Spec,
				Location:  a.cfg.Location(),
				OutputDir: a.cfg.Output.Dir,
				Image:     a.cfg.RenderOptions(),
			}, log)

			// Write an initial palette so the output dir is never empty
			if err := r.RunOnce(); err != nil {
				log.WithError(err).Error("Error writing initial palette")
			}
			return r.Start(ctx)
		},
	}
}

// export writes colors in the requested format. Text formats go to w unless
// file is set; PNG always goes to a file, defaulting to color-palette.png in
// the output dir.
func (a *app) export(w io.Writer, colors []color.Color, formatName, file string, source image.Image) error {
	if formatName == "" {
		formatName = a.cfg.Output.Format
	}
	format, err := palette.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case palette.FormatCSS:
		data = []byte(palette.CSS(colors) + "\n")
	case palette.FormatJSON:
		text, err := palette.JSON(colors)
		if err != nil {
			return err
		}
		data = []byte(text + "\n")
	case palette.FormatPNG:
		opts := a.cfg.RenderOptions()
		if source != nil {
			opts.Source = source
			opts.Height = opts.Width
		}
		data, err = render.PNG(colors, opts)
		if err != nil {
			return fmt.Errorf("failed to render palette image: %w", err)
		}
		if file == "" {
			file = filepath.Join(a.cfg.Output.Dir, render.FileName)
		}
	}

	if file == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	fmt.Fprintln(w, file)
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
