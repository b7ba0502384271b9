package middleware

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/display"
	"dashboard/src/timezones"
	"dashboard/src/utils"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ZoneQueryParam overrides the display zone of a single request.
const ZoneQueryParam = "tz"

// ProfileZoneLookup returns the stored zone of a user, "" when none is set.
type ProfileZoneLookup interface {
	ProfileZone(ctx context.Context, userID uint) (string, error)
}

// Timezone establishes the display zone of each request: the tz query
// parameter when given, otherwise the zone stored in the caller's profile,
// otherwise defaultZone. An invalid tz is rejected with 400. The zone only
// lives in the request context.
func Timezone(lookup ProfileZoneLookup, defaultZone *time.Location) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			disp, err := resolveDisplay(ctx, r, lookup, defaultZone)
			if err != nil {
				utils.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(display.WithContext(ctx, disp)))
		})
	}
}

func resolveDisplay(ctx context.Context, r *http.Request, lookup ProfileZoneLookup, defaultZone *time.Location) (display.Context, error) {
	if name, ok := r.URL.Query()[ZoneQueryParam]; ok {
		zone, err := timezones.LoadZone(name[0])
		if err != nil {
			return display.Context{}, utils.BadRequest(err.Error())
		}
		return display.New(zone, display.SourceOverride), nil
	}

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok || lookup == nil {
		return display.New(defaultZone, display.SourceDefault), nil
	}

	logger := utils.LoggerFromContext(ctx).WithField("user_id", claims.UserID)
	name, err := lookup.ProfileZone(ctx, claims.UserID)
	if err != nil {
		logger.WithError(err).Warn("profile zone lookup failed, using default zone")
		return display.New(defaultZone, display.SourceDefault), nil
	}
	if name == "" {
		return display.New(defaultZone, display.SourceDefault), nil
	}

	zone, err := timezones.LoadZone(name)
	if err != nil {
		logger.WithFields(logrus.Fields{"zone": name, "error": err}).Warn("stored profile zone is invalid, using default zone")
		return display.New(defaultZone, display.SourceDefault), nil
	}
	return display.New(zone, display.SourceProfile), nil
}
