package services

import (
	"context"
	"strings"
	"time"
)

type VerifyResult struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// ProVerifier checks a payment reference before Pro is enabled.
type ProVerifier interface {
	Verify(ctx context.Context, reference string) (VerifyResult, error)
}

// MockVerifier stands in for a payment backend: after Delay it approves any
// non-blank reference. No external system is contacted.
type MockVerifier struct {
	Delay time.Duration
}

func (v MockVerifier) Verify(ctx context.Context, reference string) (VerifyResult, error) {
	if strings.TrimSpace(reference) == "" {
		return VerifyResult{Approved: false, Reason: "transaction reference is required"}, nil
	}

	if v.Delay > 0 {
		timer := time.NewTimer(v.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return VerifyResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	return VerifyResult{Approved: true, Reason: "payment verified"}, nil
}
