package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUploadSessionJSONRoundTrip(t *testing.T) {
	started := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, st := range []UploadState{StateUpload, StateLoading, StateSuccess, StateError} {
		in := UploadSession{
			ID:        "a1",
			State:     st,
			FileName:  "march.pdf",
			Progress:  42.5,
			Message:   "Reading transactions...",
			Error:     "Upload canceled.",
			StartedAt: started,
		}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal %v: %v", st, err)
		}
		var out UploadSession
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if out != in {
			t.Errorf("round trip = %+v, want %+v", out, in)
		}
	}
}

func TestUploadStateUnmarshalUnknown(t *testing.T) {
	var s UploadState
	if err := json.Unmarshal([]byte(`"finished"`), &s); err == nil {
		t.Error("expected error for unknown state name")
	}
}

func TestRunwaySeverityText(t *testing.T) {
	for _, sev := range []RunwaySeverity{RunwayUnknown, RunwayCritical, RunwayLow, RunwayHealthy} {
		text, err := sev.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got RunwaySeverity
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != sev {
			t.Errorf("round trip %q = %v, want %v", text, got, sev)
		}
	}
	var r RunwaySeverity
	if err := r.UnmarshalText([]byte("dire")); err == nil {
		t.Error("expected error for unknown severity")
	}
}
