package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/carson-networks/tx-ledger/internal/logging"
)

// Probe is one dependency checked by the status endpoint.
type Probe func(ctx context.Context) error

type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler reports liveness plus the state of every registered probe.
// Any failing probe turns the response into a 503.
type Handler struct {
	Probes  map[string]Probe
	Timeout time.Duration
}

func NewHandler(probes map[string]Probe) Handler {
	return Handler{Probes: probes, Timeout: 2 * time.Second}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	ctx, cancel := context.WithTimeout(req.Context(), h.Timeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: make(map[string]string, len(h.Probes))}
	var failed []string
	for name, probe := range h.Probes {
		if err := probe(ctx); err != nil {
			resp.Checks[name] = err.Error()
			failed = append(failed, name)
			continue
		}
		resp.Checks[name] = "ok"
	}

	code := http.StatusOK
	if len(failed) > 0 {
		sort.Strings(failed)
		logData.AddData("failedChecks", failed)
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return err
	}
	if len(failed) > 0 {
		return errors.New("status: checks failed")
	}
	return nil
}
