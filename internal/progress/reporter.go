package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while an export runs.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
	// Fail reports that the run stopped; Finish is not called afterwards.
	Fail(err error)
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter(description string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{Description: description}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	Description string
	bar         *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(r.Description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func (r *TerminalReporter) Fail(err error) {
	if r.bar != nil {
		_ = r.bar.Exit()
	}
	fmt.Fprintf(os.Stderr, "\nExport failed: %v\n", err)
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Out   io.Writer
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.Out, "Starting export of %d file(s)\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.Out, "Export complete")
}

func (r *CIReporter) Fail(err error) {
	fmt.Fprintf(r.Out, "Export failed: %v\n", err)
}

// LogReporter writes progress to a structured logger. Servers use it.
type LogReporter struct {
	Logger zerolog.Logger
	total  int
}

func (r *LogReporter) Start(total int) {
	r.total = total
	r.Logger.Info().Int("total", total).Msg("export started")
}

func (r *LogReporter) Update(current int, message string) {
	r.Logger.Debug().Int("step", current).Int("total", r.total).Msg(message)
}

func (r *LogReporter) Finish() {
	r.Logger.Info().Int("total", r.total).Msg("export finished")
}

func (r *LogReporter) Fail(err error) {
	r.Logger.Error().Err(err).Msg("export failed")
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(int) {}
func (Nop) Update(int, string) {}
func (Nop) Finish() {}
func (Nop) Fail(error) {}
