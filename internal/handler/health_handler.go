package handler

import (
	"context"

	"croncommander/commons/error_handler"
	"croncommander/commons/handler"
	"croncommander/internal/dto"
	"croncommander/internal/logger"
)

type HealthHandler struct {
	logger      logger.Logger
	serviceName string
	backend     string
}

func NewHealthHandler(log logger.Logger, serviceName, backend string) *HealthHandler {
	return &HealthHandler{
		logger:      log.With(logger.String("component", "health_handler")),
		serviceName: serviceName,
		backend:     backend,
	}
}

func (h *HealthHandler) HealthService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.HealthCheckRequest],
) (dto.HealthCheckResponse, *error_handler.ErrorCollection) {
	h.logger.Debug("health check requested")

	response := dto.HealthCheckResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Backend: h.backend,
	}

	return response, nil
}
