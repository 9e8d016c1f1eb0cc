// Package upload drives one statement upload from file selection through the
// backend analysis to a stored result.
package upload

import (
	"fmt"
	"strings"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/source"
)

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks stmt against limits. It returns nil or a *ValidationError.
func Validate(stmt *source.Statement, limits config.UploadLimits) error {
	if stmt == nil {
		return invalid("No file selected")
	}
	if stmt.Size <= 0 {
		return invalid("File is empty")
	}
	if limits.MaxBytes > 0 && stmt.Size > limits.MaxBytes {
		return invalid("File size must be less than %d MB", limits.MaxMB())
	}

	ext := stmt.Ext()
	if !limits.AcceptsExt(ext) && !limits.AcceptsType(stmt.ContentType) {
		return invalid("Unsupported file type. Please upload a %s file", DescribeAccepted(limits.Accepted))
	}

	// A PDF must carry the PDF signature regardless of how it is named.
	if (ext == ".pdf" || stmt.ContentType == source.TypePDF) && stmt.Sniffed != source.TypePDF {
		return invalid("File does not look like a valid PDF")
	}
	return nil
}

// DescribeAccepted renders [.pdf .json .txt] as "PDF, JSON, or TXT".
func DescribeAccepted(exts []string) string {
	names := make([]string, 0, len(exts))
	for _, e := range exts {
		names = append(names, strings.ToUpper(strings.TrimPrefix(e, ".")))
	}
	switch len(names) {
	case 0:
		return "supported"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
