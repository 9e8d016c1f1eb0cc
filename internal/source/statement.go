package source

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sniffLen is the prefix http.DetectContentType inspects.
const sniffLen = 512

// FromPath stats a local file and returns a Statement for it.
func FromPath(path string) (*Statement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat statement: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("stat statement: %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	name := filepath.Base(path)
	sniffed := sniff(head[:n])
	return &Statement{
		Name:        name,
		Path:        path,
		Size:        info.Size(),
		ContentType: declaredType(name),
		Sniffed:     sniffed,
		ModTime:     info.ModTime(),
	}, nil
}

// FromBytes wraps an in-memory upload. declared is the client-supplied
// content type and may be empty.
func FromBytes(name, declared string, data []byte) *Statement {
	name = filepath.Base(name)
	sniffed := sniff(data)
	ct := normalizeType(declared)
	if ct == "" || ct == TypeUnknown {
		ct = declaredType(name)
	}
	return &Statement{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: ct,
		Sniffed:     sniffed,
		ModTime:     time.Now(),
		data:        data,
	}
}

// TypeForExt returns the canonical content type for an extension, or "".
func TypeForExt(ext string) string {
	return extTypes[strings.ToLower(ext)]
}

// sniff detects the content type of data, without parameters.
func sniff(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return normalizeType(http.DetectContentType(data))
}

// declaredType is the extension's canonical type, or TypeUnknown. The sniffed
// type never stands in for it; Sniffed is only consulted for the PDF check.
func declaredType(name string) string {
	if ct := TypeForExt(lowerExt(name)); ct != "" {
		return ct
	}
	return TypeUnknown
}

func normalizeType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
