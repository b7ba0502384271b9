package handlers

import (
	"context"
	"dashboard/src/utils"
	"dashboard/src/worker/controllers"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller *controllers.Controller
	Logger     *logrus.Logger
	Timeout    time.Duration
	PruneCron  string
}

func NewHandler(controller *controllers.Controller, logger *logrus.Logger, timeout time.Duration, pruneCron string) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{Controller: controller, Logger: logger, Timeout: timeout, PruneCron: pruneCron}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	if errors.Is(err, context.DeadlineExceeded) {
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	} else if errors.As(err, &httpErr) {
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	} else {
		h.Logger.WithError(err).Error("unhandled error")
		h.respond(w, nil, map[string]string{"error": "Internal Server Error"}, http.StatusInternalServerError)
	}
}
