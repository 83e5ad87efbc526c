// Package report renders user-facing CLI output: status lines on the
// standard streams and formatted scan results.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gitguard/gitguard-cli/internal/api"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	mediumStyle  = warnStyle
	lowStyle     = infoStyle
	infoSevStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// severityRank orders severities for display, highest first.
var severityRank = map[string]int{
	api.SeverityCritical: 0,
	api.SeverityHigh:     1,
	api.SeverityMedium:   2,
	api.SeverityLow:      3,
	api.SeverityInfo:     4,
}

// Reporter writes status lines and scan results. Styling is dropped when
// stdout is not a terminal or colors are disabled.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	color  bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithWriters overrides the output streams, mainly for tests.
func WithWriters(out, errOut io.Writer) Option {
	return func(r *Reporter) {
		r.out = out
		r.errOut = errOut
	}
}

// WithColor forces color on or off regardless of TTY detection.
func WithColor(enabled bool) Option {
	return func(r *Reporter) {
		r.color = enabled
	}
}

// New creates a Reporter writing to stdout/stderr, with colors when
// stdout is a terminal.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		out:    os.Stdout,
		errOut: os.Stderr,
		color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) render(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}

// Success prints a success line to stdout.
func (r *Reporter) Success(format string, args ...any) {
	fmt.Fprintln(r.out, r.render(successStyle, "✓ ")+fmt.Sprintf(format, args...))
}

// Error prints an error line to stderr.
func (r *Reporter) Error(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.render(errorStyle, "✗ ")+fmt.Sprintf(format, args...))
}

// Warning prints a warning line to stderr.
func (r *Reporter) Warning(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.render(warnStyle, "⚠ ")+fmt.Sprintf(format, args...))
}

// Info prints an informational line to stdout.
func (r *Reporter) Info(format string, args ...any) {
	fmt.Fprintln(r.out, r.render(infoStyle, "ℹ ")+fmt.Sprintf(format, args...))
}

// Println prints an unstyled line to stdout.
func (r *Reporter) Println(format string, args ...any) {
	fmt.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// ScanResult renders a full scan report.
func (r *Reporter) ScanResult(result *api.ScanResult) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.render(boldStyle, "Scan Results"))
	fmt.Fprintln(r.out, r.render(dimStyle, fmt.Sprintf("Files scanned: %d", result.FilesScanned)))
	fmt.Fprintln(r.out, r.render(dimStyle, fmt.Sprintf("Duration: %.2fs", float64(result.Duration)/1000)))
	fmt.Fprintln(r.out)

	if len(result.Vulnerabilities) == 0 {
		r.Success("No vulnerabilities found")
		return
	}

	s := result.Summary
	fmt.Fprintln(r.out, r.render(boldStyle, fmt.Sprintf("Found %d issue(s):", len(result.Vulnerabilities))))
	r.summaryLine("CRITICAL", s.Critical, errorStyle)
	r.summaryLine("HIGH", s.High, errorStyle)
	r.summaryLine("MEDIUM", s.Medium, mediumStyle)
	r.summaryLine("LOW", s.Low, lowStyle)
	r.summaryLine("INFO", s.Info, infoSevStyle)
	fmt.Fprintln(r.out)

	for _, v := range sortBySeverity(result.Vulnerabilities) {
		r.vulnerability(v)
	}
}

func (r *Reporter) summaryLine(label string, count int, style lipgloss.Style) {
	if count == 0 {
		return
	}
	fmt.Fprintln(r.out, r.render(style, fmt.Sprintf("  %s: %d", label, count)))
}

func (r *Reporter) vulnerability(v api.Vulnerability) {
	style := severityStyle(v.Severity)
	fmt.Fprintf(r.out, "%s %s\n", r.render(style, "["+v.Severity+"]"), v.Type)
	fmt.Fprintf(r.out, "  %s:%d\n", v.File, v.Line)
	fmt.Fprintf(r.out, "  %s\n", v.Description)
	if v.Remediation != "" {
		fmt.Fprintf(r.out, "  %s %s\n", r.render(dimStyle, "Fix:"), v.Remediation)
	}
	if v.AIRemediation != "" {
		fmt.Fprintf(r.out, "  %s %s\n", r.render(dimStyle, "AI suggestion:"), v.AIRemediation)
	}
	fmt.Fprintln(r.out)
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case api.SeverityCritical, api.SeverityHigh:
		return errorStyle
	case api.SeverityMedium:
		return mediumStyle
	case api.SeverityLow:
		return lowStyle
	default:
		return infoSevStyle
	}
}

func sortBySeverity(vulns []api.Vulnerability) []api.Vulnerability {
	sorted := make([]api.Vulnerability, len(vulns))
	copy(sorted, vulns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i].Severity) < rank(sorted[j].Severity)
	})
	return sorted
}

func rank(severity string) int {
	if r, ok := severityRank[severity]; ok {
		return r
	}
	return len(severityRank)
}
