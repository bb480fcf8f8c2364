// Package report serializes a completed exchange into an exportable
// consultation report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/medibot/medibot/logger"
	"github.com/medibot/medibot/session"
)

// Disclaimer is the fixed sentence appended to every report.
const Disclaimer = "This report is generated by an AI assistant and is not a " +
	"substitute for professional medical advice. Consult a qualified " +
	"healthcare provider for diagnosis and treatment."

// timestampLayout is the human-readable render of the capture time. The
// entry itself keeps the structured instant.
const timestampLayout = "Jan 2, 2006 3:04 PM"

// FileName returns the export filename for a report id.
func FileName(reportID string) string {
	return "medical-report-" + reportID + ".txt"
}

// Build renders the fixed plain-text report template for a bot entry.
func Build(e session.Entry) string {
	var b strings.Builder
	b.WriteString("MEDICAL CONSULTATION REPORT\n")
	b.WriteString("===========================\n\n")
	fmt.Fprintf(&b, "Report ID: %s\n", e.ReportID)
	fmt.Fprintf(&b, "Generated: %s\n\n", e.Timestamp.Format(timestampLayout))
	b.WriteString("Patient Question:\n")
	b.WriteString(e.Query)
	b.WriteString("\n\n")
	b.WriteString("Assistant Response:\n")
	b.WriteString(e.Response)
	b.WriteString("\n\n")
	b.WriteString("---\n")
	b.WriteString(Disclaimer)
	b.WriteString("\n")
	return b.String()
}

// Export writes the plain-text report into dir and returns the written path.
// The write goes through a temp file in the same directory so a failed write
// never leaves a truncated report, and the temp file is removed on every
// failure path.
func Export(e session.Entry, dir string) (string, error) {
	return writeReport(dir, FileName(e.ReportID), []byte(Build(e)))
}

func writeReport(dir, name string, content []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	dest := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize report: %w", err)
	}

	logger.Info("report exported", "path", dest, "bytes", len(content))
	return dest, nil
}
