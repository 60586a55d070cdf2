package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/RevCBH/osrmctl/internal/lifecycle"
	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// labelWidth aligns the value column of key/value output.
const labelWidth = 14

// DisplayConfig controls status output formatting
type DisplayConfig struct {
	UseColor bool // Enable ANSI color codes
}

// StateSymbol marks a container state in status output
type StateSymbol string

const (
	SymbolRunning   StateSymbol = "●"
	SymbolStopped   StateSymbol = "○"
	SymbolUnmanaged StateSymbol = "-"
	SymbolGone      StateSymbol = "✗"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	goneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// displayConfigFor enables color only when w is a terminal.
func displayConfigFor(w io.Writer) DisplayConfig {
	f, ok := w.(*os.File)
	return DisplayConfig{UseColor: ok && term.IsTerminal(int(f.Fd()))}
}

// GetStateSymbol returns the symbol for a lifecycle state
func GetStateSymbol(state lifecycle.State) StateSymbol {
	switch state {
	case lifecycle.StateRunningManaged:
		return SymbolRunning
	case lifecycle.StateStoppedManaged:
		return SymbolStopped
	case lifecycle.StateGone:
		return SymbolGone
	default:
		return SymbolUnmanaged
	}
}

func stateStyle(state lifecycle.State) lipgloss.Style {
	switch state {
	case lifecycle.StateRunningManaged:
		return runningStyle
	case lifecycle.StateStoppedManaged:
		return stoppedStyle
	case lifecycle.StateGone:
		return goneStyle
	default:
		return lipgloss.NewStyle()
	}
}

// FormatField renders one aligned "label  value" line.
func FormatField(label, value string, cfg DisplayConfig) string {
	style := lipgloss.NewStyle().Width(labelWidth)
	if cfg.UseColor {
		style = labelStyle.Width(labelWidth)
	}
	return style.Render(label+":") + value + "\n"
}

// FormatStatus formats the managed container status for display
func FormatStatus(status lifecycle.Status, storePath string, cfg DisplayConfig) string {
	var b strings.Builder

	state := fmt.Sprintf("%s %s", GetStateSymbol(status.State), status.State)
	if cfg.UseColor {
		state = stateStyle(status.State).Render(state)
	}
	b.WriteString(FormatField("state", state, cfg))

	id := "(none)"
	if status.ID != "" {
		id = string(status.ID)
	}
	b.WriteString(FormatField("container", id, cfg))
	b.WriteString(FormatField("store", storePath, cfg))

	return b.String()
}

// FormatPBFInfo formats an OSM PBF header for display
func FormatPBFInfo(info *pipeline.PBFInfo, cfg DisplayConfig) string {
	var b strings.Builder

	b.WriteString(FormatField("file", info.Path, cfg))
	b.WriteString(FormatField("size", formatBytes(info.Size), cfg))
	b.WriteString(FormatField("modified", info.ModTime.Format(time.RFC3339), cfg))

	if info.Bounds != nil {
		bounds := fmt.Sprintf("%.6f,%.6f %.6f,%.6f",
			info.Bounds.MinLon, info.Bounds.MinLat, info.Bounds.MaxLon, info.Bounds.MaxLat)
		b.WriteString(FormatField("bounds", bounds, cfg))
	}
	if info.WritingProgram != "" {
		b.WriteString(FormatField("program", info.WritingProgram, cfg))
	}
	if info.Source != "" {
		b.WriteString(FormatField("source", info.Source, cfg))
	}
	if len(info.RequiredFeatures) > 0 {
		b.WriteString(FormatField("required", strings.Join(info.RequiredFeatures, ", "), cfg))
	}
	if len(info.OptionalFeatures) > 0 {
		b.WriteString(FormatField("optional", strings.Join(info.OptionalFeatures, ", "), cfg))
	}
	if !info.ReplicationTimestamp.IsZero() {
		b.WriteString(FormatField("replicated", info.ReplicationTimestamp.UTC().Format(time.RFC3339), cfg))
	}

	return b.String()
}

// formatBytes renders n using binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
