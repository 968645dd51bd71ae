package goJWT

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/MrEthical07/goJWT/blacklist"
	"github.com/MrEthical07/goJWT/claims"
	"github.com/MrEthical07/goJWT/clock"
	"github.com/MrEthical07/goJWT/internal/logattr"
	"github.com/MrEthical07/goJWT/jwt"
	"github.com/MrEthical07/goJWT/payload"
	"github.com/MrEthical07/goJWT/token"
	"github.com/google/uuid"
)

// Engine issues, verifies and revokes tokens.
//
// Engine is safe for concurrent use. It holds immutable configuration, the
// signing provider and the revocation registry; every call builds its own
// payload and token values.
type Engine struct {
	config    Config
	provider  jwt.Provider
	registry  *blacklist.Registry
	store     blacklist.Store
	ownsStore bool
	clock     clock.Source
	random    io.Reader
	logger    *slog.Logger
	metrics   *Metrics
	audit     *auditQueue
}

// Issue signs a token for user carrying sub plus the default claims. The
// iss claim is the root of req; a nil req yields an empty issuer.
func (e *Engine) Issue(ctx context.Context, req Request, user Subject) (string, error) {
	return e.IssueWithClaims(ctx, req, user, nil)
}

// Sign is an alias of Issue.
func (e *Engine) Sign(ctx context.Context, req Request, user Subject) (string, error) {
	return e.Issue(ctx, req, user)
}

// IssueWithClaims is Issue with additional custom claims. sub and the
// default claims overwrite custom claims of the same name.
func (e *Engine) IssueWithClaims(ctx context.Context, req Request, user Subject, custom map[string]any) (string, error) {
	if user == nil || user.SubjectID() == "" {
		e.metrics.Inc(MetricIssueFailure)
		return "", ErrNilSubject
	}
	sub := user.SubjectID()

	var origin claims.Origin
	if req != nil {
		origin = req
	}
	factory := payload.NewFactory(claims.NewFactory(origin, claims.FactoryConfig{
		TTL:    e.config.TTL,
		Clock:  e.clock,
		Random: e.random,
	}))
	p, err := factory.
		AddCustomClaims(custom).
		AddClaim(string(claims.Subject), sub).
		Make()
	if err != nil {
		e.metrics.Inc(MetricIssueFailure)
		return "", err
	}

	raw, err := e.provider.Encode(ctx, p)
	if err != nil {
		e.metrics.Inc(MetricIssueFailure)
		e.logger.Error("jwt issue failed", logattr.Subject(sub), logattr.Error(err))
		return "", err
	}

	jti, _ := p.ID()
	e.metrics.Inc(MetricIssueSuccess)
	e.emitAudit(ctx, AuditTokenIssued, true, sub, jti, nil)
	e.logger.Debug("jwt issued", logattr.Subject(sub), logattr.TokenID(jti))
	return raw, nil
}

// Verify checks the bearer token of req and returns its payload. When the
// blacklist is enabled a revoked token fails with ErrTokenBlacklisted.
func (e *Engine) Verify(ctx context.Context, req Request) (*payload.Payload, error) {
	if req == nil {
		return e.Payload(ctx, "")
	}
	return e.Payload(ctx, req.BearerToken())
}

// Payload runs the Verify checks on a raw token string.
func (e *Engine) Payload(ctx context.Context, raw string) (*payload.Payload, error) {
	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}()

	p, err := e.decode(ctx, raw)
	if err != nil {
		e.verifyFailed(ctx, nil, err)
		return nil, err
	}

	if e.registry.IsEnabled() {
		revoked, err := e.registry.Has(ctx, p)
		if err != nil {
			if !errors.Is(err, blacklist.ErrMissingIdentifier) {
				e.logger.Error("blacklist lookup failed", logattr.Error(err))
			}
			e.verifyFailed(ctx, p, err)
			return nil, err
		}
		if revoked {
			e.metrics.Inc(MetricVerifyBlacklisted)
			e.verifyFailed(ctx, p, ErrTokenBlacklisted)
			return nil, ErrTokenBlacklisted
		}
	}

	e.metrics.Inc(MetricVerifySuccess)
	return p, nil
}

// Invalidate revokes the bearer token of req: until its exp claim, or for
// ten years when forever is set. It fails with ErrBlacklistDisabled, without
// touching the store, when revocation is off.
func (e *Engine) Invalidate(ctx context.Context, req Request, forever bool) error {
	if e.registry.IsDisabled() {
		e.metrics.Inc(MetricInvalidateFailure)
		return ErrBlacklistDisabled
	}

	raw := ""
	if req != nil {
		raw = req.BearerToken()
	}
	p, err := e.decode(ctx, raw)
	if err != nil {
		e.metrics.Inc(MetricInvalidateFailure)
		return err
	}

	event, id := AuditTokenRevoked, MetricInvalidateSuccess
	if forever {
		event, id = AuditTokenRevokedForever, MetricInvalidateForever
		err = e.registry.Forever(ctx, p)
	} else {
		err = e.registry.Add(ctx, p)
	}

	sub, _ := p.Subject()
	jti, _ := p.ID()
	if err != nil {
		e.metrics.Inc(MetricInvalidateFailure)
		e.logger.Error("jwt revoke failed", logattr.TokenID(jti), logattr.Error(err))
		e.emitAudit(ctx, event, false, sub, jti, err)
		return err
	}

	e.metrics.Inc(id)
	e.emitAudit(ctx, event, true, sub, jti, nil)
	e.logger.Info("jwt revoked", logattr.TokenID(jti), slog.Bool("forever", forever))
	return nil
}

// decode is the structural check followed by signature and claim
// verification. Revocation is not consulted.
func (e *Engine) decode(ctx context.Context, raw string) (*payload.Payload, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	tok, err := token.New(raw)
	if err != nil {
		return nil, err
	}
	return e.provider.Decode(ctx, tok.Plain())
}

func (e *Engine) verifyFailed(ctx context.Context, p *payload.Payload, err error) {
	if errors.Is(err, ErrTokenExpired) {
		e.metrics.Inc(MetricVerifyExpired)
	} else if !errors.Is(err, ErrTokenBlacklisted) {
		e.metrics.Inc(MetricVerifyFailure)
	}
	sub, _ := p.Subject()
	jti, _ := p.ID()
	e.logger.Debug("jwt rejected", logattr.Subject(sub), logattr.TokenID(jti), logattr.Error(err))
	e.emitAudit(ctx, AuditTokenVerifyFailed, false, sub, jti, err)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, sub, jti string, err error) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: clock.Now(e.clock).Time(),
		EventType: eventType,
		Subject:   sub,
		TokenID:   jti,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	e.audit.Emit(ctx, event)
}

// Algorithm returns the configured signing algorithm.
func (e *Engine) Algorithm() jwt.Algorithm {
	return e.provider.Algorithm()
}

// BlacklistEnabled reports whether revocation is active.
func (e *Engine) BlacklistEnabled() bool {
	return e.registry.IsEnabled()
}

// MetricsSnapshot returns the current metric values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// AuditDroppedByType splits AuditDropped by audit event type. Types with
// no drops are absent.
func (e *Engine) AuditDroppedByType() map[string]uint64 {
	return e.audit.DroppedByType()
}

// Close flushes pending audit events and closes a store the engine created.
func (e *Engine) Close() error {
	e.audit.Close()
	if !e.ownsStore {
		return nil
	}
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
