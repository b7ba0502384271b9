package handlers

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/api/controllers"
	"dashboard/src/display"
	"dashboard/src/utils"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
	Timeout    time.Duration
	// DefaultZone is used when a request reaches a handler without a display
	// context.
	DefaultZone *time.Location
}

func NewHandler(controller controllers.IController, logger *logrus.Logger, timeout time.Duration, defaultZone *time.Location) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{Controller: controller, Logger: logger, Timeout: timeout, DefaultZone: defaultZone}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	return utils.WithLogger(ctx, h.Logger), cancel
}

func (h *Handler) displayContext(ctx context.Context) display.Context {
	if d, ok := display.FromContext(ctx); ok {
		return d
	}
	return display.New(h.DefaultZone, display.SourceDefault)
}

func (h *Handler) claims(ctx context.Context) (auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return auth.Claims{}, utils.Unauthorized("auth token not detected")
	}
	return claims, nil
}

func (h *Handler) decode(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return utils.BadRequest("invalid request body: " + err.Error())
	}
	return nil
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
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
	} else if err != nil {
		h.Logger.WithError(err).Error("unhandled error")
		h.respond(w, nil, map[string]string{"error": "Internal Server Error"}, http.StatusInternalServerError)
	} else {
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}
