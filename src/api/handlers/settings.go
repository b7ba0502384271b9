package handlers

import (
	"dashboard/src/schemas"
	"net/http"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	claims, err := h.claims(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	settings, err := h.Controller.GetSettings(ctx, claims.UserID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, settings, http.StatusOK)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	claims, err := h.claims(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.UpdateSettingsRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	settings, err := h.Controller.UpdateLocation(ctx, claims.UserID, req.Location)
	if err != nil {
		h.Logger.WithField("user_id", claims.UserID).Warning(err)
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, settings, http.StatusOK)
}
