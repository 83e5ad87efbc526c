package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitguard/gitguard-cli/internal/api"
)

func newBufReporter() (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return New(WithWriters(out, errOut), WithColor(false)), out, errOut
}

func TestReporter_StatusLines(t *testing.T) {
	r, out, errOut := newBufReporter()

	r.Success("done")
	r.Info("fyi %d", 42)
	r.Warning("careful")
	r.Error("broken")

	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "ℹ fyi 42")
	assert.Contains(t, errOut.String(), "⚠ careful")
	assert.Contains(t, errOut.String(), "✗ broken")
}

func TestReporter_ScanResult_Clean(t *testing.T) {
	r, out, _ := newBufReporter()

	r.ScanResult(&api.ScanResult{FilesScanned: 3, Duration: 1500})

	assert.Contains(t, out.String(), "Files scanned: 3")
	assert.Contains(t, out.String(), "Duration: 1.50s")
	assert.Contains(t, out.String(), "No vulnerabilities found")
}

func TestReporter_ScanResult_SortsBySeverity(t *testing.T) {
	r, out, _ := newBufReporter()

	r.ScanResult(&api.ScanResult{
		FilesScanned: 1,
		Vulnerabilities: []api.Vulnerability{
			{Severity: api.SeverityLow, Type: "weak-hash", File: "a.go", Line: 1, Description: "low issue"},
			{Severity: api.SeverityCritical, Type: "sql-injection", File: "b.go", Line: 2, Description: "crit issue"},
			{Severity: api.SeverityMedium, Type: "xss", File: "c.go", Line: 3, Description: "med issue"},
		},
		Summary: api.ScanSummary{Total: 3, Critical: 1, Medium: 1, Low: 1},
	})

	s := out.String()
	crit := strings.Index(s, "sql-injection")
	med := strings.Index(s, "xss")
	low := strings.Index(s, "weak-hash")
	assert.Less(t, crit, med)
	assert.Less(t, med, low)

	assert.Contains(t, s, "CRITICAL: 1")
	assert.Contains(t, s, "MEDIUM: 1")
	assert.Contains(t, s, "LOW: 1")
	assert.NotContains(t, s, "HIGH:")
}
