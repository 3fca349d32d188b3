package watcher

import (
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/spendscope/internal/ingest"
)

// ReportSuffix is appended to the full file name of a processed file, so
// spend.csv and spend.json get separate reports.
const ReportSuffix = ".analysis.json"

// Matches reports whether path is an input file the watcher should process.
// Hidden files, editor and spreadsheet lock files, partial downloads and the
// watcher's own reports are ignored.
func Matches(path string) bool {
	name := filepath.Base(path)
	switch {
	case name == "" || name == "." || name == string(filepath.Separator):
		return false
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "~$"):
		return false
	case strings.HasSuffix(name, ReportSuffix):
		return false
	case strings.HasSuffix(name, "~"):
		return false
	}
	return ingest.Supported(name)
}

// ReportPath returns the report location for input inside outDir.
func ReportPath(outDir, input string) string {
	return filepath.Join(outDir, filepath.Base(input)+ReportSuffix)
}
