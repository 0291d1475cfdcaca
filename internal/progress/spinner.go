package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner reports a long step. On a non-terminal it prints nothing while
// running and a single result line when done.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
	message string
}

// NewSpinner returns a spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	sp := &Spinner{out: out, caps: caps, symbols: SelectSymbols(caps)}
	if caps.IsTTY {
		sp.s = spinner.New(spinner.CharSets[sp.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
		if caps.SupportsColor {
			_ = sp.s.Color("cyan")
		}
	}
	return sp
}

// Start begins spinning with message as the suffix.
func (sp *Spinner) Start(message string) {
	sp.message = message
	if sp.s == nil {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Stop ends the step and prints its outcome.
func (sp *Spinner) Stop(err error) {
	if sp.s != nil {
		sp.s.Stop()
	}
	if sp.message == "" {
		return
	}
	if err != nil {
		fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Failure, sp.message)
		return
	}
	fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Checkmark, sp.message)
}

// Run shows the spinner around fn.
func (sp *Spinner) Run(message string, fn func() error) error {
	sp.Start(message)
	err := fn()
	sp.Stop(err)
	return err
}
