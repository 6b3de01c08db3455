package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/ui/styles"
	"gopkg.in/yaml.v3"
)

// StatusEntry is one resolved path and its link state.
type StatusEntry struct {
	Path       string `json:"path" yaml:"path"`
	State      string `json:"state" yaml:"state"`
	HomeLinked bool   `json:"home_linked" yaml:"home_linked"`
	Stored     bool   `json:"stored" yaml:"stored"`
}

// StatusReport is what `dotbak status` prints.
type StatusReport struct {
	Home        string        `json:"home" yaml:"home"`
	StorageRoot string        `json:"storage_root" yaml:"storage_root"`
	Remote      string        `json:"remote,omitempty" yaml:"remote,omitempty"`
	Entries     []StatusEntry `json:"entries" yaml:"entries"`
}

// Counts tallies entries per state.
func (r *StatusReport) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Entries {
		counts[e.State]++
	}
	return counts
}

// RenderStatus writes report to out in format. FormatAuto is resolved
// against out when it is a file.
func RenderStatus(out io.Writer, format Format, report *StatusReport) error {
	if format == FormatAuto {
		format = FormatTerminal
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		return renderStatusText(out, report)
	case FormatTerminal:
		return renderStatusTerminal(out, report)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

func renderStatusText(out io.Writer, report *StatusReport) error {
	for _, e := range report.Entries {
		if _, err := fmt.Fprintf(out, "%-10s %s\n", e.State, e.Path); err != nil {
			return err
		}
	}
	return nil
}

func renderStatusTerminal(out io.Writer, report *StatusReport) error {
	header := fmt.Sprintf("%s -> %s", report.Home, report.StorageRoot)
	if report.Remote != "" {
		header += fmt.Sprintf(" (%s)", report.Remote)
	}
	if _, err := fmt.Fprintln(out, styles.Render("Header", header)); err != nil {
		return err
	}

	if len(report.Entries) == 0 {
		_, err := fmt.Fprintln(out, styles.Render("Muted", "Nothing is tracked yet. Use `dotbak add <path>`."))
		return err
	}

	for _, e := range report.Entries {
		line := styles.Render(stateStyle(e.State), e.State) + " " + styles.Render("FilePath", e.Path)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	counts := report.Counts()
	summary := fmt.Sprintf("%d managed, %d unlinked, %d dangling", counts["managed"], counts["unlinked"], counts["dangling"])
	_, err := fmt.Fprintln(out, styles.Render("Muted", summary))
	return err
}

func stateStyle(state string) string {
	switch state {
	case "managed":
		return "Managed"
	case "unlinked":
		return "Unlinked"
	case "dangling":
		return "Dangling"
	default:
		return "Untracked"
	}
}
