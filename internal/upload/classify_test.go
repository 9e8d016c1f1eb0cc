package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spendpilot/spendpilot/internal/apiclient"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Message: "File is empty"}, "File is empty"},
		{"422 detail", &apiclient.APIError{Status: 422, Detail: "No transactions found"}, "No transactions found"},
		{"422 bare", &apiclient.APIError{Status: 422}, MsgInvalidFormat},
		{"413 ignores detail", &apiclient.APIError{Status: 413, Detail: "payload exceeded 10MB"}, MsgTooLarge},
		{"429", &apiclient.APIError{Status: 429, Detail: "slow down"}, MsgRateLimited},
		{"504", &apiclient.APIError{Status: 504}, MsgTimeout},
		{"500 detail", &apiclient.APIError{Status: 500, Detail: "LLM unavailable"}, MsgGeneric + " (LLM unavailable)"},
		{"500 bare", &apiclient.APIError{Status: 500}, MsgGeneric},
		{"timeout", fmt.Errorf("%w: %w", apiclient.ErrRequestFailed, context.DeadlineExceeded), MsgTimeout},
		{"transport", fmt.Errorf("%w: dial tcp: connection refused", apiclient.ErrRequestFailed), MsgConnectivity},
		{"canceled", context.Canceled, MsgCanceled},
		{"other", errors.New("apiclient: parsing analysis: unexpected EOF"), MsgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_TooLargeMentionsTemplate(t *testing.T) {
	msg := Classify(&apiclient.APIError{Status: 413, Detail: "anything"})
	if !strings.Contains(strings.ToLower(msg), "file too large") {
		t.Errorf("413 message %q lacks the too-large template", msg)
	}
}
