package handlers

import (
	"fmt"
	"net/http"
	"strings"
)

// redactedHeaders carry credentials and are never echoed back.
var redactedHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
	"X-Api-Key":           true,
}

func Healthcheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		fmt.Fprintf(w, "Im alive!")
	} else {
		fmt.Fprintf(w, "Method not available: %s", r.Method)
	}
}

// DebugHeaders echoes the request headers, with credentials masked.
func (h *Handler) DebugHeaders(w http.ResponseWriter, r *http.Request) {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		value := strings.Join(values, ", ")
		if redactedHeaders[http.CanonicalHeaderKey(name)] {
			value = "<redacted>"
		}
		headers[name] = value
	}

	h.respond(w, r, map[string]interface{}{
		"method":      r.Method,
		"path":        r.URL.Path,
		"remote_addr": r.RemoteAddr,
		"headers":     headers,
	}, http.StatusOK)
}
