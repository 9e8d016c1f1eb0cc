package upload

import (
	"context"
	"errors"
	"net/http"

	"github.com/spendpilot/spendpilot/internal/apiclient"
)

// User-facing failure messages.
const (
	MsgInvalidFormat = "Invalid file format. Please upload a valid bank statement."
	MsgTooLarge      = "File too large. Please upload a smaller statement."
	MsgRateLimited   = "Too many requests. Please wait a moment and try again."
	MsgTimeout       = "Request timeout. The analysis took too long, please try again."
	MsgConnectivity  = "Unable to reach the analysis service. Please check your connection and try again."
	MsgCanceled      = "Upload canceled."
	MsgGeneric       = "Failed to process your statement. Please try again."
)

// Classify converts any upload failure into one human-readable message.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnprocessableEntity:
			if apiErr.Detail != "" {
				return apiErr.Detail
			}
			return MsgInvalidFormat
		case http.StatusRequestEntityTooLarge:
			return MsgTooLarge
		case http.StatusTooManyRequests:
			return MsgRateLimited
		case http.StatusGatewayTimeout:
			return MsgTimeout
		}
		if apiErr.Detail != "" {
			return MsgGeneric + " (" + apiErr.Detail + ")"
		}
		return MsgGeneric
	}

	switch {
	case apiclient.IsTimeout(err):
		return MsgTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, ErrCanceled):
		return MsgCanceled
	case errors.Is(err, apiclient.ErrRequestFailed):
		return MsgConnectivity
	}
	return MsgGeneric
}
