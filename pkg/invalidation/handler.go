package invalidation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler serves POST /api/cache/invalidate for sibling deployments. It
// authenticates with a pre-shared key and dispatches to the coordinator's
// local invalidation table. A bad key performs no cache action at all.
type Handler struct {
	coord  *Coordinator
	apiKey string
	logger zerolog.Logger
}

// NewHandler creates the invalidation endpoint handler.
func NewHandler(coord *Coordinator, apiKey string, logger zerolog.Logger) *Handler {
	return &Handler{
		coord:  coord,
		apiKey: apiKey,
		logger: logger.With().Str("component", "cache-api").Logger(),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Malformed cache invalidation request")
		receivedRequests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	if req.APIKey != h.apiKey {
		receivedRequests.WithLabelValues("unauthorized").Inc()
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Unauthorized"})
		return
	}

	h.logger.Info().
		Str("type", string(req.Type)).
		Str("id", string(req.ID)).
		Msg("Received cache invalidation request")

	if err := h.coord.Apply(r.Context(), req.Type, string(req.ID)); err != nil {
		receivedRequests.WithLabelValues("bad_type").Inc()
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid cache type"})
		return
	}

	receivedRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Cache invalidated successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
