package schedule

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/watzon/pigment/palette"
	"github.com/watzon/pigment/render"
)

// File names written next to render.FileName on every run
const (
	CSSFileName  = "palette.css"
	JSONFileName = "palette.json"
)

// Options configures the scheduled export
type Options struct {
	Spec      string
	Location  *time.Location
	OutputDir string
	Image     render.Options
}

// Runner regenerates the palette on a cron schedule and writes every export
// format to the output directory
type Runner struct {
	mu   sync.Mutex
	ctrl *palette.Controller
	opts Options
	log  *logrus.Entry
}

// NewRunner creates a runner around an existing controller
func NewRunner(ctrl *palette.Controller, opts Options, log *logrus.Logger) *Runner {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Runner{
		ctrl: ctrl,
		opts: opts,
		log:  log.WithField("component", "schedule"),
	}
}

// Start schedules the export job and blocks until ctx is cancelled. Running
// jobs are allowed to finish before it returns.
func (r *Runner) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(r.opts.Location))
	_, err := c.AddFunc(r.opts.Spec, func() {
		r.log.Info("Generating and writing new color palette...")
		if err := r.RunOnce(); err != nil {
			r.log.WithError(err).Error("Error writing palette")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule palette job: %w", err)
	}

	c.Start()
	r.log.WithFields(logrus.Fields{
		"spec":     r.opts.Spec,
		"timezone": r.opts.Location.String(),
		"dir":      r.opts.OutputDir,
	}).Info("scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	r.log.Info("scheduler stopped")
	return nil
}

// RunOnce regenerates the palette and writes the CSS, JSON and PNG exports
func (r *Runner) RunOnce() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	r.ctrl.Regenerate()
	colors := r.ctrl.Colors()

	jsonText, err := palette.JSON(colors)
	if err != nil {
		return err
	}
	png, err := render.PNG(colors, r.opts.Image)
	if err != nil {
		return fmt.Errorf("failed to render palette image: %w", err)
	}

	files := map[string][]byte{
		CSSFileName:     []byte(palette.CSS(colors) + "\n"),
		JSONFileName:    []byte(jsonText + "\n"),
		render.FileName: png,
	}
	for name, data := range files {
		if err := writeAtomic(filepath.Join(r.opts.OutputDir, name), data); err != nil {
			return err
		}
	}

	r.log.WithField("palette", r.ctrl.Hexes()).Info("palette written")
	return nil
}

// writeAtomic writes data next to path and renames it into place so readers
// never see a partial file
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
