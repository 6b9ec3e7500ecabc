/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, true},
		{"wrapped throttle", fmt.Errorf("select: %w", &smithy.GenericAPIError{Code: "ThrottlingException"}), true},
		{"no such key", &smithy.GenericAPIError{Code: "NoSuchKey"}, false},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "InvalidQuery", Message: "bad"})
	if got := ErrorCode(err); got != "InvalidQuery" {
		t.Errorf("Expected InvalidQuery, got %q", got)
	}
	if got := ErrorCode(errors.New("x")); got != "" {
		t.Errorf("Expected empty code, got %q", got)
	}
}
