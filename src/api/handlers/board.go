package handlers

import (
	"dashboard/src/export"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetMyReports serves the caller's board as JSON, or as a spreadsheet when
// format=XLSX.
func (h *Handler) GetMyReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	claims, err := h.claims(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	disp := h.displayContext(ctx)

	board, err := h.Controller.GetMyReports(ctx, claims.UserID, disp)
	if err != nil {
		h.Logger.Warning(err)
		h.HandleErrors(w, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "XLSX") {
		xlsxFile, err := export.BoardXLSX(board, disp.ZoneName())
		if err != nil {
			h.Logger.Warning(err)
			h.HandleErrors(w, err)
			return
		}
		defer xlsxFile.Close()

		w.Header().Set("Content-Type", export.XLSXContentType)
		w.Header().Set("Content-Disposition", "attachment; filename=my-reports.xlsx")
		if err := xlsxFile.Write(w); err != nil {
			h.Logger.Warning(err)
		}
		return
	}

	h.respond(w, r, board, http.StatusOK)
}

func (h *Handler) GetMyReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	claims, err := h.claims(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	entry, err := h.Controller.GetReportDeadline(ctx, claims.UserID, chi.URLParam(r, "slug"), h.displayContext(ctx))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, entry, http.StatusOK)
}
