package display

import (
	"context"
	"time"
)

type Source string

const (
	SourceDefault  Source = "default"
	SourceProfile  Source = "profile"
	SourceOverride Source = "override"
)

// Context is the display zone of a single request. It is passed explicitly to
// whatever renders deadlines for that request.
type Context struct {
	Zone   *time.Location
	Source Source
}

func New(zone *time.Location, source Source) Context {
	return Context{Zone: zone, Source: source}
}

func (c Context) ZoneName() string {
	if c.Zone == nil {
		return time.UTC.String()
	}
	return c.Zone.String()
}

// In converts an instant to the display zone, falling back to UTC when no zone
// was set.
func (c Context) In(t time.Time) time.Time {
	if c.Zone == nil {
		return t.UTC()
	}
	return t.In(c.Zone)
}

type contextKey string

const displayKey = contextKey("display")

func WithContext(ctx context.Context, d Context) context.Context {
	return context.WithValue(ctx, displayKey, d)
}

func FromContext(ctx context.Context) (Context, bool) {
	d, ok := ctx.Value(displayKey).(Context)
	return d, ok
}
