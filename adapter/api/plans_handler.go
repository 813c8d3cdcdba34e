package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitaplan/vitaplan/internal/presentation/export"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/queries"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
	"github.com/vitaplan/vitaplan/internal/shared/infrastructure/cache"
)

// PlansHandler serves stored plans. When a cache is wired, exported plan
// documents are served from it and refreshed on miss.
type PlansHandler struct {
	getPlan   *queries.GetPlanHandler
	listPlans *queries.ListPlansHandler
	planCache *cache.RedisPlanCache
	logger    *slog.Logger
}

// NewPlansHandler creates the handler. planCache may be nil.
func NewPlansHandler(
	getPlan *queries.GetPlanHandler,
	listPlans *queries.ListPlansHandler,
	planCache *cache.RedisPlanCache,
	logger *slog.Logger,
) *PlansHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlansHandler{
		getPlan:   getPlan,
		listPlans: listPlans,
		planCache: planCache,
		logger:    logger,
	}
}

// List responds with the IDs of recently stored plans.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.listPlans.Handle(r.Context(), 50)
	if err != nil {
		h.logger.Error("list plans failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": ids})
}

// Get responds with the exported JSON document of one plan.
func (h *PlansHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	if h.planCache != nil {
		if doc, err := h.planCache.Get(r.Context(), id); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(doc)
			return
		}
	}

	plan, err := h.getPlan.Handle(r.Context(), id)
	if errors.Is(err, domain.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		h.logger.Error("load plan failed", "plan_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load plan")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, plan); err != nil {
		h.logger.Error("encode plan failed", "plan_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encode plan")
		return
	}

	if h.planCache != nil {
		if err := h.planCache.Set(r.Context(), id, buf.Bytes()); err != nil {
			h.logger.Warn("plan cache update failed", "plan_id", id, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
