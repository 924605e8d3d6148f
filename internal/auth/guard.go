package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sport-analytics/internal/observability"
)

// DefaultVerifyTimeout bounds a single call to the identity service.
const DefaultVerifyTimeout = 3 * time.Second

// ErrRequestAborted is returned by Evaluate when the client went away during verification.
var ErrRequestAborted = errors.New("request aborted during session verification")

// Action is what the guard does with a request.
type Action string

const (
	ActionPassThrough            Action = "pass_through"
	ActionRedirect               Action = "redirect"
	ActionPassThroughWithCookies Action = "pass_through_with_cookies"
)

// Request is the part of an inbound request the guard looks at.
type Request struct {
	Path    string
	Cookies map[string]string
}

// Cookie is a response cookie the guard wants set.
type Cookie struct {
	Name     string
	Value    string
	HTTPOnly bool
}

// Decision is the outcome for one request.
type Decision struct {
	Action        Action
	Class         RouteClass
	Location      string
	SetCookies    []Cookie
	DeleteCookies []string
	Verification  Verification
}

// GuardConfig is the immutable configuration of a Guard.
type GuardConfig struct {
	Routes        RouteTable
	SessionCookie string
	UserIDCookie  string
	SignInPath    string
	DashboardPath string
	VerifyTimeout time.Duration
	SecureCookies bool
	// Inspector, when set, rejects expired JWT session tokens without a remote call.
	Inspector *TokenInspector
}

// Guard gates auth and protected routes on a cookie-held session token. It keeps no per-request state.
type Guard struct {
	cfg      GuardConfig
	verifier Verifier
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewGuard constructs a guard.
func NewGuard(cfg GuardConfig, verifier Verifier, logger *zap.Logger, metrics *observability.Metrics) *Guard {
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = DefaultVerifyTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, p := range cfg.Routes.Overlaps() {
		logger.Warn("route listed as both auth and protected; auth takes precedence", zap.String("prefix", p))
	}
	return &Guard{cfg: cfg, verifier: verifier, logger: logger, metrics: metrics}
}

// Evaluate decides what to do with req. It only fails with ErrRequestAborted, in which case no
// decision applies and nothing must be written to the response.
func (g *Guard) Evaluate(ctx context.Context, req Request) (Decision, error) {
	if g.cfg.Routes.Excluded(req.Path) {
		return Decision{Action: ActionPassThrough, Class: ClassExcluded}, nil
	}

	class := g.cfg.Routes.Classify(req.Path)
	if class == ClassPublic {
		d := Decision{Action: ActionPassThrough, Class: class}
		g.record(req.Path, d)
		return d, nil
	}

	v := g.verify(ctx, req.Cookies[g.cfg.SessionCookie])
	if v.Reason == ReasonCanceled {
		g.logger.Debug("verification abandoned", zap.String("path", req.Path), zap.Error(v.Err))
		g.metrics.RecordGuardDecision(string(class), "aborted", string(v.Reason))
		return Decision{}, fmt.Errorf("%w: %w", ErrRequestAborted, context.Canceled)
	}

	d := Decision{Class: class, Verification: v}
	switch class {
	case ClassAuth:
		if v.Verified() {
			d.Action = ActionRedirect
			d.Location = g.cfg.DashboardPath
		} else {
			d.Action = ActionPassThrough
		}
	case ClassProtected:
		if v.Verified() {
			d.Action = ActionPassThroughWithCookies
			d.SetCookies = []Cookie{{Name: g.cfg.UserIDCookie, Value: v.User.ID.String()}}
		} else {
			d.Action = ActionRedirect
			d.Location = g.cfg.SignInPath
			d.DeleteCookies = []string{g.cfg.SessionCookie}
		}
	}

	g.record(req.Path, d)
	return d, nil
}

func (g *Guard) verify(ctx context.Context, token string) Verification {
	if errors.Is(ctx.Err(), context.Canceled) {
		return NotVerified(ReasonCanceled, ctx.Err())
	}
	if token == "" {
		return NotVerified(ReasonMissingToken, ErrMissingToken)
	}
	if g.cfg.Inspector.Expired(token) {
		return NotVerified(ReasonExpiredToken, ErrExpiredToken)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.VerifyTimeout)
	defer cancel()

	user, err := g.verifier.Verify(callCtx, token)
	if err != nil {
		return NotVerified(failureReason(ctx, err), err)
	}
	if user == nil || user.ID == "" {
		return NotVerified(ReasonMalformedResponse, ErrEmptyUser)
	}
	return Verified(user)
}

func (g *Guard) record(path string, d Decision) {
	reason := string(d.Verification.Reason)
	g.metrics.RecordGuardDecision(string(d.Class), string(d.Action), reason)

	fields := []zap.Field{
		zap.String("path", path),
		zap.String("class", string(d.Class)),
		zap.String("action", string(d.Action)),
	}
	if d.Location != "" {
		fields = append(fields, zap.String("location", d.Location))
	}
	if reason != "" {
		fields = append(fields, zap.String("reason", reason), zap.Error(d.Verification.Err))
	}
	g.logger.Debug("route guard decision", fields...)
}
