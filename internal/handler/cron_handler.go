package handler

import (
	"context"

	"croncommander/commons/error_handler"
	"croncommander/commons/handler"
	"croncommander/internal/auth"
	"croncommander/internal/domain"
	"croncommander/internal/dto"
	"croncommander/internal/i18n"
	"croncommander/internal/logger"
	"croncommander/internal/service"
)

// TokenHeader carries the token for the caller's next toggle
const TokenHeader = "X-Cron-Commander-Token"

type CronHandler struct {
	presenter *service.Presenter
	gate      *service.ToggleGate
	logger    logger.Logger
}

func NewCronHandler(presenter *service.Presenter, gate *service.ToggleGate, log logger.Logger) *CronHandler {
	return &CronHandler{
		presenter: presenter,
		gate:      gate,
		logger:    log.With(logger.String("component", "cron_handler")),
	}
}

// ListService renders the schedule and hands out a toggle token
func (h *CronHandler) ListService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.ListCronsRequest],
) (dto.ListCronsResponse, *error_handler.ErrorCollection) {
	caller := auth.CallerFromContext(ctx)
	if !caller.Can(auth.CapabilityManageOptions) {
		return dto.ListCronsResponse{}, errorCollectionFor(domain.ErrUnauthorized)
	}

	table, err := h.presenter.View(ctx, ioutil.QueryParams["filter"], requestLocales(ioutil.QueryParams, ioutil.Headers)...)
	if err != nil {
		return dto.ListCronsResponse{}, errorCollectionFor(err)
	}

	token, err := h.gate.IssueToken(ctx, caller)
	if err != nil {
		h.logger.WithContext(ctx).Error("failed to issue token", logger.Error(err))
		return dto.ListCronsResponse{}, errorCollectionFor(err)
	}
	ioutil.SetResponseHeader(TokenHeader, token)

	return dto.ListCronsResponse{Table: table, Token: token}, nil
}

// ToggleService stops or (re)starts the posted job. Every authorized
// attempt gets a fresh token back, since the posted one is spent.
func (h *CronHandler) ToggleService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.ToggleCronRequest],
) (domain.ToggleResult, *error_handler.ErrorCollection) {
	caller := auth.CallerFromContext(ctx)
	req := ioutil.Body

	dueTime, ok := req.Timestamp.Int64()
	if !ok || ioutil.BindError != nil {
		dueTime = 0
	}

	result, err := h.gate.HandleToggleRequest(ctx, caller, req.TokenValue(), req.Hook, dueTime)

	if caller.Can(auth.CapabilityManageOptions) {
		if token, tokenErr := h.gate.IssueToken(ctx, caller); tokenErr == nil {
			ioutil.SetResponseHeader(TokenHeader, token)
		} else {
			h.logger.WithContext(ctx).Error("failed to issue token", logger.Error(tokenErr))
		}
	}

	if err != nil {
		return "", errorCollectionFor(err)
	}

	return result, nil
}

// requestLocales orders locale preferences: explicit query, then Accept-Language
func requestLocales(query, headers map[string]string) []string {
	var locales []string
	if locale := query["locale"]; locale != "" {
		locales = append(locales, locale)
	}
	return append(locales, i18n.ParseAcceptLanguage(headers["Accept-Language"])...)
}
