package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/sport-analytics/internal/domain"
	"github.com/spec-kit/sport-analytics/internal/identity"
)

// Verifier exchanges a session token for the user it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.VerifiedUser, error)
}

// VerifierFunc adapts a function, such as (*identity.Client).Me, to Verifier.
type VerifierFunc func(ctx context.Context, token string) (*domain.VerifiedUser, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) (*domain.VerifiedUser, error) {
	return f(ctx, token)
}

// Reason explains why a token was not verified.
type Reason string

const (
	ReasonMissingToken      Reason = "missing_token"
	ReasonExpiredToken      Reason = "expired_token"
	ReasonRemoteRejected    Reason = "remote_rejected"
	ReasonTransportFailure  Reason = "transport_failure"
	ReasonTimeout           Reason = "timeout"
	ReasonMalformedResponse Reason = "malformed_response"
	ReasonCanceled          Reason = "canceled"
)

var (
	ErrMissingToken = errors.New("session token missing")
	ErrExpiredToken = errors.New("session token expired")
	ErrEmptyUser    = errors.New("verifier returned no user")
)

// Verification is either Verified(user) or NotVerified(reason). The reason is kept for logs and
// metrics only; callers branch on Verified.
type Verification struct {
	User   *domain.VerifiedUser
	Reason Reason
	Err    error
}

// Verified builds a successful verification.
func Verified(user *domain.VerifiedUser) Verification {
	return Verification{User: user}
}

// NotVerified builds a failed verification.
func NotVerified(reason Reason, err error) Verification {
	return Verification{Reason: reason, Err: err}
}

// Verified reports whether a user was confirmed.
func (v Verification) Verified() bool {
	return v.User != nil && v.Reason == ""
}

// failureReason maps a verifier error onto the reason taxonomy. parent is the request context,
// which tells a client abort apart from the per-call timeout.
func failureReason(parent context.Context, err error) Reason {
	var httpErr *identity.HTTPError
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, identity.ErrMalformedResponse):
		return ReasonMalformedResponse
	case errors.As(err, &httpErr):
		return ReasonRemoteRejected
	default:
		return ReasonTransportFailure
	}
}
