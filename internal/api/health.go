// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/respond"
)

// readinessTimeout bounds every dependency check.
const readinessTimeout = 2 * time.Second

// HealthDependencies are the checks run by /ready. A nil check is skipped.
type HealthDependencies struct {
	CheckDatabase func(context context.Context) error
	CheckCache    func(context context.Context) error
}

type dependencyCheck struct {
	name  string
	check func(context.Context) error
}

type healthHandler struct {
	checks []dependencyCheck
	logger *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type readinessReport struct {
	Status string        `json:"status"`
	Checks []checkResult `json:"checks"`
}

// NewHealthHandlers returns the liveness and readiness handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{logger: logger}
	for _, candidate := range []dependencyCheck{
		{"postgres", deps.CheckDatabase},
		{"redis", deps.CheckCache},
	} {
		if candidate.check != nil {
			handler.checks = append(handler.checks, candidate)
		}
	}
	return handler.liveness, handler.readiness
}

// liveness answers 200 while the process can serve requests at all.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness answers 503 "degraded" when any check fails within readinessTimeout.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	report := readinessReport{Status: "ready", Checks: make([]checkResult, 0, len(handler.checks))}
	status := http.StatusOK

	for _, dependency := range handler.checks {
		result := checkResult{Name: dependency.name, IsOK: true}

		if err := dependency.check(ctx); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			report.Status = "degraded"
			status = http.StatusServiceUnavailable
			handler.logger.Error("readiness_check_failed", slog.String("dependency", dependency.name), slog.Any("error", err))
		}

		report.Checks = append(report.Checks, result)
	}

	respond.JSON(writer, status, respond.SuccessEnvelope{Data: report})
}
