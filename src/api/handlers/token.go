package handlers

import (
	"dashboard/src/schemas"
	"net/http"
)

func (h *Handler) PostToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	var tokenRequestCreds = new(schemas.TokenRequest)
	if err := h.decode(r, tokenRequestCreds); err != nil {
		h.HandleErrors(w, err)
		return
	}

	tokenResponse, err := h.Controller.PostToken(ctx, tokenRequestCreds.Username, tokenRequestCreds.Password)
	if err != nil {
		h.Logger.WithField("username", tokenRequestCreds.Username).Warning(err)
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, tokenResponse, http.StatusOK)
}
