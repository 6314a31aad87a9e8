// Package progress shows progress indicators for long-running steps such as
// loading a large OpenAPI specification.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Progress is the interface for progress indicators.
type Progress interface {
	// Start starts the progress indicator with a message.
	Start(message string) error

	// Update updates the progress message.
	Update(message string) error

	// Success marks the progress as successful.
	Success(message string) error

	// Failure marks the progress as failed.
	Failure(message string) error

	// Stop stops the progress indicator.
	Stop() error

	// IsActive returns true if the progress indicator is active.
	IsActive() bool
}

// Config contains configuration for progress indicators.
type Config struct {
	// Enabled determines if progress indicators are shown.
	Enabled bool

	// Writer is where to write progress output.
	Writer io.Writer
}

// DefaultConfig returns a configuration writing to w. Progress is only
// enabled when w is a terminal.
func DefaultConfig(w io.Writer) *Config {
	return &Config{
		Enabled: IsTerminal(w),
		Writer:  w,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Spinner implements a spinner progress indicator.
type Spinner struct {
	spinner *pterm.SpinnerPrinter
	config  *Config
	active  bool
	mu      sync.Mutex
}

var _ Progress = (*Spinner)(nil)

// NewSpinner creates a new spinner progress indicator.
func NewSpinner(config *Config) *Spinner {
	if config == nil {
		config = DefaultConfig(os.Stderr)
	}

	return &Spinner{
		config: config,
	}
}

// Start starts the spinner with a message.
func (s *Spinner) Start(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		return nil
	}

	if s.active {
		return fmt.Errorf("spinner already active")
	}

	printer := pterm.DefaultSpinner.WithRemoveWhenDone(false)
	if s.config.Writer != nil {
		printer = printer.WithWriter(s.config.Writer)
	}

	var err error
	s.spinner, err = printer.Start(message)
	if err != nil {
		return fmt.Errorf("failed to start spinner: %w", err)
	}

	s.active = true
	return nil
}

// Update updates the spinner message.
func (s *Spinner) Update(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled || !s.active || s.spinner == nil {
		return nil
	}

	s.spinner.UpdateText(message)
	return nil
}

// Success marks the spinner as successful.
func (s *Spinner) Success(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled || !s.active || s.spinner == nil {
		return nil
	}

	s.spinner.Success(message)
	s.active = false
	return nil
}

// Failure marks the spinner as failed.
func (s *Spinner) Failure(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled || !s.active || s.spinner == nil {
		return nil
	}

	s.spinner.Fail(message)
	s.active = false
	return nil
}

// Stop stops the spinner.
func (s *Spinner) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.spinner == nil {
		return nil
	}

	if err := s.spinner.Stop(); err != nil {
		return fmt.Errorf("failed to stop spinner: %w", err)
	}
	s.active = false
	return nil
}

// IsActive returns true if the spinner is active.
func (s *Spinner) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Run starts p with message, runs fn and reports its outcome on p.
func Run(p Progress, message string, fn func() error) error {
	if err := p.Start(message); err != nil {
		return err
	}

	if err := fn(); err != nil {
		_ = p.Failure(err.Error())
		return err
	}

	return p.Success(message)
}
