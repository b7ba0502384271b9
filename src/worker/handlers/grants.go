package handlers

import (
	"context"
	"dashboard/src/schemas"
	"dashboard/src/utils"
	"net/http"
)

// PruneGrants deletes expired access grants immediately rather than waiting
// for the next scheduled run.
func (h *Handler) PruneGrants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	deleted, err := h.Controller.PruneExpiredGrants(utils.WithLogger(ctx, h.Logger))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.PruneResponse{Deleted: deleted}, http.StatusOK)
}

func (h *Handler) GetPruneStatus(w http.ResponseWriter, r *http.Request) {
	status := schemas.PruneStatusResponse{Schedule: h.PruneCron}
	if next := h.Controller.NextPrune(); !next.IsZero() {
		next = next.UTC()
		status.NextRun = &next
	}
	h.respond(w, r, status, http.StatusOK)
}
