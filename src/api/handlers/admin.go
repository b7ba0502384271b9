package handlers

import (
	"dashboard/src/schemas"
	"dashboard/src/utils"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	reports, err := h.Controller.ListReports(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, reports, http.StatusOK)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	detail, err := h.Controller.GetReportDetail(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, detail, http.StatusOK)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	var req schemas.ReportRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	report, err := h.Controller.CreateReport(ctx, &req)
	if err != nil {
		h.Logger.Warning(err)
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, report, http.StatusCreated)
}

func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	var req schemas.ReportRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	report, err := h.Controller.UpdateReport(ctx, chi.URLParam(r, "slug"), &req)
	if err != nil {
		h.Logger.Warning(err)
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, report, http.StatusOK)
}

func (h *Handler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	userID, err := userIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.AccessRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	access, err := h.Controller.GrantAccess(ctx, chi.URLParam(r, "slug"), userID, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, access, http.StatusOK)
}

func (h *Handler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	userID, err := userIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.Controller.RevokeAccess(ctx, chi.URLParam(r, "slug"), userID); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, nil, http.StatusNoContent)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	var req schemas.CreateUserRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	user, err := h.Controller.CreateUser(ctx, &req)
	if err != nil {
		h.Logger.Warning(err)
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, user, http.StatusCreated)
}

func userIDParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.BadRequest("userID must be a positive integer")
	}
	return uint(id), nil
}
