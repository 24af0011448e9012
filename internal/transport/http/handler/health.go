package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DependencyCheck probes one backing service. Optional dependencies report
// their status but do not turn the service unhealthy.
type DependencyCheck struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

type HealthHandler struct {
	appName   string
	env       string
	startedAt time.Time
	checks    []DependencyCheck
	log       logrus.FieldLogger
}

type dependencyStatus struct {
	OK       bool   `json:"ok"`
	Optional bool   `json:"optional,omitempty"`
	Message  string `json:"message,omitempty"`
}

func NewHealthHandler(appName, env string, startedAt time.Time, log logrus.FieldLogger, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{appName: appName, env: env, startedAt: startedAt, checks: checks, log: log}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	allOK := true
	deps := make(gin.H, len(h.checks))
	for _, check := range h.checks {
		status := dependencyStatus{OK: true, Optional: check.Optional}
		if err := check.Check(ctx); err != nil {
			// The endpoint is public; the cause stays in the server log.
			h.log.WithError(err).WithField("dependency", check.Name).Warn("health check failed")
			status.OK = false
			status.Message = "unavailable"
			if !check.Optional {
				allOK = false
			}
		}
		deps[check.Name] = status
	}

	statusCode := http.StatusOK
	if !allOK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"success":      allOK,
		"app":          h.appName,
		"env":          h.env,
		"uptime_sec":   int(time.Since(h.startedAt).Seconds()),
		"dependencies": deps,
	})
}
