// Package export renders computed statements into downloadable documents.
// It performs no arithmetic of its own beyond re-deriving total cells as
// spreadsheet formulas over the already-correct numbers.
package export

import (
	"strings"
	"time"
)

// Filename builds the export artifact name: {PropertyName}_{ReportKind}_{ISODate}
// with spaces in the property name replaced by underscores. The extension
// is appended by the caller.
func Filename(propertyName, reportKind string, date time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(propertyName), " ", "_")
	return name + "_" + reportKind + "_" + date.Format("2006-01-02")
}
