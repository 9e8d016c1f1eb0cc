package config

import (
	"strings"

	"github.com/spendpilot/spendpilot/internal/source"
)

// bytesPerMB is the divisor for user-visible size limits.
const bytesPerMB = 1024 * 1024

// UploadLimits are the client-side checks applied before any upload.
type UploadLimits struct {
	MaxBytes int64
	// Accepted extensions, lower-cased with the leading dot.
	Accepted []string
}

// Limits derives validation limits from the upload settings.
func (c Config) Limits() UploadLimits {
	mb := c.Upload.MaxSizeMB
	if mb <= 0 {
		mb = DefaultConfig().Upload.MaxSizeMB
	}
	accepted := c.Upload.Accepted
	if len(accepted) == 0 {
		accepted = DefaultConfig().Upload.Accepted
	}
	return UploadLimits{
		MaxBytes: int64(mb) * bytesPerMB,
		Accepted: normalizeExts(accepted),
	}
}

// MaxMB returns the size limit in whole megabytes for messages.
func (l UploadLimits) MaxMB() int64 {
	return l.MaxBytes / bytesPerMB
}

// AcceptsExt reports whether ext is in the accepted set.
func (l UploadLimits) AcceptsExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, a := range l.Accepted {
		if a == ext {
			return true
		}
	}
	return false
}

// AcceptsType reports whether a content type belongs to an accepted extension.
func (l UploadLimits) AcceptsType(ct string) bool {
	if ct == "" {
		return false
	}
	for _, a := range l.Accepted {
		if source.TypeForExt(a) == ct {
			return true
		}
	}
	return false
}

// AcceptedTypes lists the content types of the accepted extensions.
func (l UploadLimits) AcceptedTypes() []string {
	var out []string
	for _, a := range l.Accepted {
		if ct := source.TypeForExt(a); ct != "" {
			out = append(out, ct)
		}
	}
	return out
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
