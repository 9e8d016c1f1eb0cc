package upload

import (
	"errors"
	"strings"
	"testing"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/source"
)

func testLimits() config.UploadLimits {
	return config.DefaultConfig().Limits()
}

func TestValidate(t *testing.T) {
	pdf := []byte("%PDF-1.5\nxref")
	tests := []struct {
		name string
		stmt *source.Statement
		want string // substring of the message, "" for valid
	}{
		{"nil", nil, "No file selected"},
		{"empty", source.FromBytes("a.pdf", "", nil), "File is empty"},
		{"pdf ok", source.FromBytes("a.pdf", "application/pdf", pdf), ""},
		{"json ok", source.FromBytes("a.json", "", []byte(`{"x":1}`)), ""},
		{"txt ok", source.FromBytes("a.txt", "", []byte("12/03 POS 500")), ""},
		{"unknown ext with pdf type", source.FromBytes("statement", "application/pdf", pdf), ""},
		{"unsupported", source.FromBytes("a.docx", "application/msword", []byte("PK..")), "Unsupported file type"},
		{"text in doc", source.FromBytes("notes.doc", "application/octet-stream", []byte("hello world")), "Unsupported file type"},
		{"text in exe, no type", source.FromBytes("payload.exe", "", []byte("hello world")), "Unsupported file type"},
		{"fake pdf", source.FromBytes("a.pdf", "application/pdf", []byte("hello")), "valid PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.stmt, testLimits())
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !strings.Contains(ve.Message, tt.want) {
				t.Errorf("message %q does not contain %q", ve.Message, tt.want)
			}
		})
	}
}

func TestValidate_Oversize(t *testing.T) {
	limits := config.UploadLimits{MaxBytes: 1024 * 1024, Accepted: []string{".txt"}}
	big := make([]byte, limits.MaxBytes+1)
	err := Validate(source.FromBytes("big.txt", "text/plain", big), limits)
	if err == nil || err.Error() != "File size must be less than 1 MB" {
		t.Errorf("err = %v, want size message", err)
	}

	exact := make([]byte, limits.MaxBytes)
	if err := Validate(source.FromBytes("ok.txt", "text/plain", exact), limits); err != nil {
		t.Errorf("file at the limit rejected: %v", err)
	}
}

func TestDescribeAccepted(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{".pdf"}, "PDF"},
		{[]string{".pdf", ".json"}, "PDF or JSON"},
		{[]string{".pdf", ".json", ".txt"}, "PDF, JSON, or TXT"},
	}
	for _, tt := range tests {
		if got := DescribeAccepted(tt.in); got != tt.want {
			t.Errorf("DescribeAccepted(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
