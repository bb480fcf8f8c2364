package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/medibot/medibot/session"
)

func sampleEntry() session.Entry {
	return session.Entry{
		Kind:      session.KindBot,
		Query:     "Can I take ibuprofen with food?",
		Response:  "Yes. Taking **ibuprofen** with food reduces stomach irritation.",
		Timestamp: time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC),
		ReportID:  "A1B2C3D4E",
	}
}

func TestBuildContainsAllFields(t *testing.T) {
	e := sampleEntry()
	got := Build(e)

	for _, want := range []string{
		"MEDICAL CONSULTATION REPORT",
		e.ReportID,
		"Mar 14, 2026 3:09 PM",
		e.Query,
		e.Response,
		Disclaimer,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\nreport:\n%s", want, got)
		}
	}
}

func TestExportWritesSingleFile(t *testing.T) {
	dir := t.TempDir()
	e := sampleEntry()

	path, err := Export(e, dir)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filepath.Base(path) != "medical-report-A1B2C3D4E.txt" {
		t.Errorf("path = %q, want filename derived from report id", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported report: %v", err)
	}
	if string(data) != Build(e) {
		t.Error("exported content differs from Build output")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries after export, want 1", len(entries))
	}
}

func TestExportRepeatedInvocations(t *testing.T) {
	dir := t.TempDir()
	e := sampleEntry()

	for i := 0; i < 3; i++ {
		if _, err := Export(e, dir); err != nil {
			t.Fatalf("Export() #%d error = %v", i, err)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (same id overwrites)", len(entries))
	}
}

func TestExportFailsOnMissingDir(t *testing.T) {
	e := sampleEntry()
	if _, err := Export(e, filepath.Join(t.TempDir(), "does", "not", "exist")); err == nil {
		t.Error("Export() into a missing dir succeeded, want error")
	}
}

func TestBuildHTMLRendersMarkdown(t *testing.T) {
	e := sampleEntry()
	got, err := BuildHTML(e)
	if err != nil {
		t.Fatalf("BuildHTML() error = %v", err)
	}
	html := string(got)

	for _, want := range []string{
		e.ReportID,
		"<strong>ibuprofen</strong>",
		"Can I take ibuprofen with food?",
		Disclaimer,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(html, "**ibuprofen**") {
		t.Error("markdown emphasis markers leaked into the html export")
	}
}

func TestExportHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportHTML(sampleEntry(), dir)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if filepath.Base(path) != "medical-report-A1B2C3D4E.html" {
		t.Errorf("path = %q, want html filename derived from report id", path)
	}
}
