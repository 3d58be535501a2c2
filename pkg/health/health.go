// Package health provides readiness tracking and HTTP probe handlers
// for the streamable HTTP transport.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Phase is the lifecycle phase of the server.
type Phase int32

// Lifecycle phases. A server starts in PhaseStarting, moves to
// PhaseReady once toolkits are registered, and enters PhaseDraining
// on shutdown.
const (
	PhaseStarting Phase = iota
	PhaseReady
	PhaseDraining
)

// String returns the phase name used in probe responses.
func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseDraining:
		return "draining"
	default:
		return "starting"
	}
}

// Checker tracks the lifecycle phase of a named service.
// It is safe for concurrent use.
type Checker struct {
	service string
	phase   atomic.Int32
}

// NewChecker creates a Checker for the named service in PhaseStarting.
func NewChecker(service string) *Checker {
	return &Checker{service: service}
}

// SetReady transitions to PhaseReady.
func (c *Checker) SetReady() {
	c.phase.Store(int32(PhaseReady))
}

// SetDraining transitions to PhaseDraining.
func (c *Checker) SetDraining() {
	c.phase.Store(int32(PhaseDraining))
}

// Ready reports whether the service is in PhaseReady.
func (c *Checker) Ready() bool {
	return Phase(c.phase.Load()) == PhaseReady
}

// Phase returns the current lifecycle phase.
func (c *Checker) Phase() Phase {
	return Phase(c.phase.Load())
}

// probeResponse is the JSON body returned by probe endpoints.
type probeResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// LivenessHandler responds 200 OK regardless of phase.
// Mount as the K8s livenessProbe (/healthz).
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, probeResponse{Service: c.service, Status: "ok"})
	}
}

// ReadinessHandler responds 200 in PhaseReady and 503 otherwise.
// Mount as the K8s readinessProbe (/readyz).
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		code := http.StatusServiceUnavailable
		if c.Ready() {
			code = http.StatusOK
		}
		writeJSON(w, code, probeResponse{Service: c.service, Status: c.Phase().String()})
	}
}

// Mount registers the probe handlers on mux under /healthz and /readyz.
func (c *Checker) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", c.LivenessHandler())
	mux.HandleFunc("/readyz", c.ReadinessHandler())
}

func writeJSON(w http.ResponseWriter, code int, v probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
