package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
)

// Check is a named liveness probe.
type Check func(ctx context.Context) error

// Checker aggregates named async checks into one readiness response.
type Checker struct {
	mu          sync.RWMutex
	checks      map[string]Check
	bypassParam string
	timeout     time.Duration
}

func NewChecker(bypassParam string) *Checker {
	return &Checker{
		checks:      make(map[string]Check),
		bypassParam: bypassParam,
		timeout:     5 * time.Second,
	}
}

// Register adds or replaces a named check.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler serves the aggregated health report: 200 when every check passes,
// 503 otherwise. The bypass query parameter forces 200 without running the
// checks, for probes during maintenance windows.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.bypassParam != "" && r.URL.Query().Get(c.bypassParam) == "true" {
			render.JSON(w, r, report{Status: "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()

		c.mu.RLock()
		names := make([]string, 0, len(c.checks))
		checks := make([]Check, 0, len(c.checks))
		for name, check := range c.checks {
			names = append(names, name)
			checks = append(checks, check)
		}
		c.mu.RUnlock()

		results := make([]error, len(checks))
		var wg sync.WaitGroup
		for i, check := range checks {
			wg.Add(1)
			go func(i int, check Check) {
				defer wg.Done()
				results[i] = check(ctx)
			}(i, check)
		}
		wg.Wait()

		rep := report{Status: "ok", Checks: make(map[string]string, len(names))}
		for i, name := range names {
			if results[i] != nil {
				rep.Status = "unhealthy"
				rep.Checks[name] = results[i].Error()
				log.Warn().Str("check", name).Err(results[i]).Msg("health check failed")
			} else {
				rep.Checks[name] = "ok"
			}
		}

		if rep.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		render.JSON(w, r, rep)
	}
}
