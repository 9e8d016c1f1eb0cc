package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromPath_PDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "march.pdf", []byte("%PDF-1.7\n1 0 obj\n"))

	st, err := FromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Name != "march.pdf" {
		t.Errorf("Name = %q, want march.pdf", st.Name)
	}
	if st.ContentType != TypePDF {
		t.Errorf("ContentType = %q, want %q", st.ContentType, TypePDF)
	}
	if st.Sniffed != TypePDF {
		t.Errorf("Sniffed = %q, want %q", st.Sniffed, TypePDF)
	}
	if st.Size != 17 {
		t.Errorf("Size = %d, want 17", st.Size)
	}
}

func TestFromPath_FakePDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fake.pdf", []byte("just some text"))

	st, err := FromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ContentType != TypePDF {
		t.Errorf("ContentType = %q, want extension type %q", st.ContentType, TypePDF)
	}
	if st.Sniffed != TypeText {
		t.Errorf("Sniffed = %q, want %q", st.Sniffed, TypeText)
	}
}

func TestFromPath_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.doc", []byte("hello world"))

	st, err := FromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ContentType != TypeUnknown {
		t.Errorf("ContentType = %q, want %q", st.ContentType, TypeUnknown)
	}
	if st.Sniffed != TypeText {
		t.Errorf("Sniffed = %q, want %q", st.Sniffed, TypeText)
	}
}

func TestFromPath_Missing(t *testing.T) {
	if _, err := FromPath(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFromPath_Directory(t *testing.T) {
	if _, err := FromPath(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     string
	}{
		{"statement.json", "application/json; charset=utf-8", TypeJSON},
		{"statement.json", "", TypeJSON},
		{"statement.json", "application/octet-stream", TypeJSON},
		{"notes", "", TypeUnknown},
		{"notes.doc", "application/octet-stream", TypeUnknown},
		{"notes.doc", "text/plain", TypeText},
	}
	for _, tt := range tests {
		st := FromBytes("/tmp/"+tt.name, tt.declared, []byte(`{"a":1}`))
		if st.ContentType != tt.want {
			t.Errorf("FromBytes(%q, %q).ContentType = %q, want %q", tt.name, tt.declared, st.ContentType, tt.want)
		}
		if st.Name != tt.name {
			t.Errorf("Name = %q, want %q", st.Name, tt.name)
		}
	}
}

func TestStatementOpen(t *testing.T) {
	st := FromBytes("a.txt", "", []byte("hello"))
	rc, err := st.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rc.Close() }()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello" {
		t.Errorf("Open() read %q, want hello", data)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old.pdf", []byte("%PDF-1.4"))
	writeFile(t, dir, "new.json", []byte(`{}`))
	writeFile(t, dir, "photo.png", []byte("\x89PNG"))
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Name != "new.json" || files[1].Name != "old.pdf" {
		t.Errorf("order = [%s %s], want [new.json old.pdf]", files[0].Name, files[1].Name)
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil || files != nil {
		t.Errorf("ScanDir(missing) = %v, %v; want nil, nil", files, err)
	}
}
