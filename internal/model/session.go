package model

import (
	"fmt"
	"time"

	"github.com/spendpilot/spendpilot/internal/source"
)

// UploadState is the position of an upload session in its lifecycle.
type UploadState int

const (
	StateUpload UploadState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s UploadState) String() string {
	switch s {
	case StateUpload:
		return "upload"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// MarshalText renders the state by name in JSON snapshots.
func (s UploadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *UploadState) UnmarshalText(text []byte) error {
	for st := StateUpload; st <= StateError; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("model: unknown upload state %q", text)
}

// UploadSession is a snapshot of one upload attempt. File is nil in the
// upload state and after validation failures.
type UploadSession struct {
	ID        string            `json:"id"`
	State     UploadState       `json:"state"`
	File      *source.Statement `json:"-"`
	FileName  string            `json:"file_name,omitempty"`
	Progress  float64           `json:"progress"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	StartedAt time.Time         `json:"started_at,omitzero"`
}
