package askai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"overload", NewServiceError(CodeOverload, ""), true},
		{"rate limit", NewServiceError(CodeRateLimit, ""), true},
		{"timeout", NewServiceError(CodeTimeout, ""), true},
		{"auth failed", NewServiceError(CodeAuthFailed, ""), false},
		{"insufficient data", NewServiceError(CodeInsufficientData, ""), false},
		{"malformed", NewServiceError(CodeMalformed, ""), false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"plain error", errors.New("whatever"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCodeForHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{429, CodeRateLimit},
		{503, CodeOverload},
		{504, CodeTimeout},
		{408, CodeTimeout},
		{401, CodeAuthFailed},
		{403, CodeAuthFailed},
		{422, CodeInsufficientData},
		{500, CodeOverload},
		{502, CodeOverload},
		{400, CodeMalformed},
		{418, CodeMalformed},
	}

	for _, tt := range tests {
		if got := CodeForHTTPStatus(tt.status); got != tt.want {
			t.Errorf("CodeForHTTPStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
