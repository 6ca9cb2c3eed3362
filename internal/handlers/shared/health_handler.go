package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"petcare/internal/utils"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	version string
	timeout time.Duration
	mu      sync.RWMutex
	checks  map[string]HealthCheck
}

type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

func NewHealthHandler(version string, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		version: version,
		timeout: timeout,
		checks:  make(map[string]HealthCheck),
	}
}

// Register adds a named dependency check. Only configured dependencies are
// registered.
func (h *HealthHandler) Register(name string, check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]HealthCheck, len(h.checks))
	names := make([]string, 0, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{Status: "healthy", Version: h.version, Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			status.Checks[name] = "error: " + err.Error()
			status.Status = "degraded"
			continue
		}
		status.Checks[name] = "ok"
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, utils.APIResponse{OK: code == http.StatusOK, Data: status})
}
