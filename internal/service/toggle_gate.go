package service

import (
	"context"
	"strings"

	"croncommander/internal/audit"
	"croncommander/internal/auth"
	"croncommander/internal/domain"
	"croncommander/internal/logger"
	"croncommander/internal/metrics"
	"croncommander/internal/nonce"
)

// ToggleAction is the nonce scope action for toggle requests
const ToggleAction = "toggle"

// ToggleGate authorizes toggle requests before they reach the controller.
// Caller, token and input are all checked before any gateway call.
type ToggleGate struct {
	controller *ToggleController
	nonces     nonce.Store
	audit      audit.Publisher
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewToggleGate creates a request boundary around controller
func NewToggleGate(
	controller *ToggleController,
	nonces nonce.Store,
	publisher audit.Publisher,
	m *metrics.Metrics,
	log logger.Logger,
) *ToggleGate {
	return &ToggleGate{
		controller: controller,
		nonces:     nonces,
		audit:      publisher,
		metrics:    m,
		logger:     log.With(logger.String("component", "toggle_gate")),
	}
}

// HandleToggleRequest validates caller, token and input, then toggles
func (g *ToggleGate) HandleToggleRequest(
	ctx context.Context,
	caller *auth.Caller,
	token string,
	hookID string,
	dueTime int64,
) (domain.ToggleResult, error) {
	result, err := g.handle(ctx, caller, token, hookID, dueTime)

	outcome := string(result)
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	g.metrics.ObserveToggle(outcome)

	return result, err
}

func (g *ToggleGate) handle(
	ctx context.Context,
	caller *auth.Caller,
	token string,
	hookID string,
	dueTime int64,
) (domain.ToggleResult, error) {
	log := g.logger.WithContext(ctx)

	if !caller.Can(auth.CapabilityManageOptions) {
		log.Warn("toggle rejected: missing capability")
		return "", domain.ErrUnauthorized
	}

	if err := g.nonces.Consume(ctx, g.Scope(caller), token); err != nil {
		log.Warn("toggle rejected: token not redeemable",
			logger.String("caller_id", caller.ID),
			logger.Error(err))
		return "", err
	}

	hookID = strings.TrimSpace(hookID)
	if hookID == "" || dueTime <= 0 {
		return "", domain.ErrInvalidInput
	}

	result, err := g.controller.Toggle(ctx, hookID, dueTime)
	if err != nil {
		log.Warn("toggle failed",
			logger.String("caller_id", caller.ID),
			logger.String("hook", hookID),
			logger.Int64("timestamp", dueTime),
			logger.Error(err))
		return "", err
	}

	if err := g.audit.Publish(ctx, audit.NewEvent(caller.ID, hookID, dueTime, result)); err != nil {
		log.Error("failed to publish audit event", logger.Error(err))
	}

	return result, nil
}

// IssueToken hands the caller a fresh token for their next toggle
func (g *ToggleGate) IssueToken(ctx context.Context, caller *auth.Caller) (string, error) {
	if !caller.Can(auth.CapabilityManageOptions) {
		return "", domain.ErrUnauthorized
	}
	return g.nonces.Issue(ctx, g.Scope(caller))
}

// Scope is the nonce scope bound to caller's toggle action
func (g *ToggleGate) Scope(caller *auth.Caller) string {
	return nonce.Scope(caller.ID, ToggleAction)
}
