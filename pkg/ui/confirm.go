package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/ui/styles"
)

// maxListedItems is how many items a confirmation lists before summarizing
const maxListedItems = 5

// ConsoleDialog asks yes/no questions on a console.
type ConsoleDialog struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleDialog reads answers from in and writes prompts to out.
func NewConsoleDialog(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: bufio.NewReader(in), out: out}
}

// Confirm shows title and the affected items and asks to continue. An
// empty answer picks defaultYes. Input ending without an answer counts as
// an empty answer.
func (d *ConsoleDialog) Confirm(title string, items []string, defaultYes bool) (bool, error) {
	_, _ = fmt.Fprintln(d.out, styles.Render("Warning", title))
	for i, item := range items {
		if i == maxListedItems {
			_, _ = fmt.Fprintf(d.out, "  └── and %d more\n", len(items)-maxListedItems)
			break
		}
		_, _ = fmt.Fprintf(d.out, "  └── %s\n", styles.Render("FilePath", item))
	}

	marker := "[y/N]"
	if defaultYes {
		marker = "[Y/n]"
	}
	_, _ = fmt.Fprintf(d.out, "Continue? %s: ", marker)

	answer, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.ErrInvalidInput, "failed to read answer")
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
