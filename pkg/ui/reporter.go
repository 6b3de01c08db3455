package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// Reporter announces the steps of a long running command. Start returns
// the function that closes the step with its outcome.
type Reporter interface {
	Start(msg string) func(err error)
	Info(msg string)
}

// SpinnerReporter draws a pterm spinner per step.
type SpinnerReporter struct {
	out io.Writer
}

// NewSpinnerReporter creates a reporter writing to out.
func NewSpinnerReporter(out io.Writer) *SpinnerReporter {
	return &SpinnerReporter{out: out}
}

// Start starts a spinner for msg.
func (r *SpinnerReporter) Start(msg string) func(err error) {
	spinner, err := pterm.DefaultSpinner.
		WithWriter(r.out).
		WithRemoveWhenDone(false).
		Start(msg)
	if err != nil {
		// no spinner, still report the outcome
		return func(stepErr error) { r.finish(nil, msg, stepErr) }
	}
	return func(stepErr error) { r.finish(spinner, msg, stepErr) }
}

func (r *SpinnerReporter) finish(spinner *pterm.SpinnerPrinter, msg string, err error) {
	if spinner == nil {
		if err != nil {
			pterm.Error.WithWriter(r.out).Println(msg)
			return
		}
		pterm.Success.WithWriter(r.out).Println(msg)
		return
	}
	if err != nil {
		spinner.Fail(msg)
		return
	}
	spinner.Success(msg)
}

// Info prints an informational line.
func (r *SpinnerReporter) Info(msg string) {
	pterm.Info.WithWriter(r.out).Println(msg)
}

// LogReporter sends steps to the log only. It is used by the daemon and
// when output is not a terminal.
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter creates a reporter logging under the "ui" component.
func NewLogReporter() *LogReporter {
	return &LogReporter{logger: logging.GetLogger("ui")}
}

// Start logs the beginning and the outcome of a step.
func (r *LogReporter) Start(msg string) func(err error) {
	r.logger.Debug().Str("step", msg).Msg("Step started")
	return func(err error) {
		if err != nil {
			r.logger.Error().Err(err).Str("step", msg).Msg("Step failed")
			return
		}
		r.logger.Info().Str("step", msg).Msg("Step done")
	}
}

// Info logs msg.
func (r *LogReporter) Info(msg string) {
	r.logger.Info().Msg(msg)
}

// PlainReporter writes one line per finished step, for non-interactive output.
type PlainReporter struct {
	out io.Writer
}

// NewPlainReporter creates a reporter writing to out.
func NewPlainReporter(out io.Writer) *PlainReporter {
	return &PlainReporter{out: out}
}

// Start returns a closer that prints the outcome.
func (r *PlainReporter) Start(msg string) func(err error) {
	return func(err error) {
		if err != nil {
			_, _ = fmt.Fprintf(r.out, "FAIL %s\n", msg)
			return
		}
		_, _ = fmt.Fprintf(r.out, "ok   %s\n", msg)
	}
}

// Info prints msg.
func (r *PlainReporter) Info(msg string) {
	_, _ = fmt.Fprintln(r.out, msg)
}
