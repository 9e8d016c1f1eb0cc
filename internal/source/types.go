// Package source provides the file handle behind an upload session: a
// statement on disk or in memory, its declared size and sniffed content type.
package source

import (
	"bytes"
	"io"
	"os"
	"time"
)

// Content types recognized for statements.
const (
	TypePDF  = "application/pdf"
	TypeJSON = "application/json"
	TypeText = "text/plain"

	TypeUnknown = "application/octet-stream"
)

// extTypes maps accepted file extensions to their canonical content type.
var extTypes = map[string]string{
	".pdf":  TypePDF,
	".json": TypeJSON,
	".txt":  TypeText,
}

// Statement is an uploadable bank statement. Name is the base file name sent
// to the backend; Sniffed is the type detected from the leading bytes.
type Statement struct {
	Name        string
	Path        string // empty for in-memory statements
	Size        int64
	ContentType string
	Sniffed     string
	ModTime     time.Time

	data []byte
}

// Open returns a reader over the statement's bytes. The caller closes it.
func (s *Statement) Open() (io.ReadCloser, error) {
	if s.Path == "" {
		return io.NopCloser(bytes.NewReader(s.data)), nil
	}
	return os.Open(s.Path)
}

// Ext returns the lower-cased extension of Name including the dot.
func (s *Statement) Ext() string {
	return lowerExt(s.Name)
}
