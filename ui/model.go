package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/watzon/pigment/palette"
	"github.com/watzon/pigment/render"
)

const (
	copyLabel   = "Copy"
	copiedLabel = "✓ Copied!"
)

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Options configures the terminal UI
type Options struct {
	OutputDir      string
	Image          render.Options
	CopiedDuration time.Duration

	// Clipboard defaults to the system clipboard
	Clipboard Clipboard
	// WriteFile defaults to os.WriteFile
	WriteFile func(name string, data []byte, perm os.FileMode) error
}

type copiedMsg struct {
	seq int
	err error
}

type copyExpiredMsg struct {
	seq int
}

type imageSavedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the palette screen. Every handler is a thin
// callback into the palette controller.
type Model struct {
	ctrl *palette.Controller
	opts Options
	log  *logrus.Entry

	keys keyMap
	help help.Model

	cursor int
	width  int

	// Code panel state
	code       string
	codeFormat palette.Format
	copied     bool
	copySeq    int

	status string
}

// New creates the UI model around an existing controller
func New(ctrl *palette.Controller, opts Options, log *logrus.Logger) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.WriteFile == nil {
		opts.WriteFile = os.WriteFile
	}
	if opts.CopiedDuration <= 0 {
		opts.CopiedDuration = 2 * time.Second
	}
	if opts.Image.Width <= 0 || opts.Image.Height <= 0 {
		opts.Image = render.DefaultOptions()
	}

	return Model{
		ctrl: ctrl,
		opts: opts,
		log:  log.WithField("component", "ui"),
		keys: defaultKeyMap(),
		help: help.New(),
	}
}

// Run starts the terminal UI and blocks until the user quits
func Run(ctrl *palette.Controller, opts Options, log *logrus.Logger) error {
	p := tea.NewProgram(New(ctrl, opts, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case copiedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Debug("clipboard write failed")
			return m, nil
		}
		if msg.seq != m.copySeq {
			return m, nil
		}
		m.copied = true
		return m, copyExpiredCmd(msg.seq, m.opts.CopiedDuration)

	case copyExpiredMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case imageSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Error("image export failed")
			m.status = "Image export failed: " + msg.err.Error()
			return m, nil
		}
		m.log.WithField("path", msg.path).Info("palette image saved")
		m.status = "Saved " + msg.path
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Generate):
		m.ctrl.Regenerate()
		m.log.WithField("palette", m.ctrl.Hexes()).Debug("regenerated")
		m.refreshCode()

	case key.Matches(msg, m.keys.Lock):
		m.toggle(int(msg.Runes[0] - '1'))

	case key.Matches(msg, m.keys.LockCursor):
		m.toggle(m.cursor)

	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor + palette.Size - 1) % palette.Size

	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % palette.Size

	case key.Matches(msg, m.keys.LockAll):
		m.ctrl.LockAll()
		m.refreshCode()

	case key.Matches(msg, m.keys.UnlockAll):
		m.ctrl.UnlockAll()
		m.refreshCode()

	case key.Matches(msg, m.keys.ExportCSS):
		m.showCode(palette.FormatCSS)

	case key.Matches(msg, m.keys.ExportJSON):
		m.showCode(palette.FormatJSON)

	case key.Matches(msg, m.keys.ExportPNG):
		return m, m.saveImageCmd()

	case key.Matches(msg, m.keys.Copy):
		m.copySeq++
		m.copied = false
		return m, copyCmd(m.opts.Clipboard, m.code, m.copySeq)

	case key.Matches(msg, m.keys.Hide):
		m.hideCode()
	}

	return m, nil
}

func (m *Model) toggle(i int) {
	if err := m.ctrl.ToggleLock(i); err != nil {
		m.log.WithError(err).Warn("toggle lock")
		return
	}
	m.cursor = i
	m.refreshCode()
}

// showCode moves the code panel to the visible state with the export text
func (m *Model) showCode(format palette.Format) {
	m.codeFormat = format
	m.refreshCode()
	m.keys.Copy.SetEnabled(true)
	m.keys.Hide.SetEnabled(true)
}

func (m *Model) hideCode() {
	m.codeFormat = ""
	m.code = ""
	m.copied = false
	m.copySeq++
	m.keys.Copy.SetEnabled(false)
	m.keys.Hide.SetEnabled(false)
}

// refreshCode re-exports the visible code so the panel tracks the palette
func (m *Model) refreshCode() {
	switch m.codeFormat {
	case palette.FormatCSS:
		m.code = m.ctrl.ToCSS()
	case palette.FormatJSON:
		out, err := m.ctrl.ToJSON()
		if err != nil {
			m.log.WithError(err).Error("json export failed")
			return
		}
		m.code = out
	}
}

func (m Model) saveImageCmd() tea.Cmd {
	colors := m.ctrl.Colors()
	opts := m.opts
	return func() tea.Msg {
		path := filepath.Join(opts.OutputDir, render.FileName)
		data, err := render.PNG(colors, opts.Image)
		if err != nil {
			return imageSavedMsg{path: path, err: err}
		}
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return imageSavedMsg{path: path, err: fmt.Errorf("failed to create output directory: %w", err)}
		}
		if err := opts.WriteFile(path, data, 0o644); err != nil {
			return imageSavedMsg{path: path, err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return imageSavedMsg{path: path}
	}
}

func copyCmd(clip Clipboard, text string, seq int) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{seq: seq, err: clip.WriteAll(text)}
	}
}

// copyExpiredCmd fires copyExpiredMsg once the confirmation has been shown long enough
func copyExpiredCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return copyExpiredMsg{seq: seq}
	})
}

// CodeVisible reports whether the export panel is shown
func (m Model) CodeVisible() bool {
	return m.codeFormat != ""
}

// Code returns the text in the export panel
func (m Model) Code() string {
	return m.code
}

// CopyLabel returns the current label of the copy control
func (m Model) CopyLabel() string {
	if m.copied {
		return copiedLabel
	}
	return copyLabel
}

// Status returns the last status line
func (m Model) Status() string {
	return m.status
}
