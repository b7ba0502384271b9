package timezones

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"
)

var (
	ErrInvalidTimeZone = errors.New("invalid time zone")
	ErrUnknownLocation = errors.New("unknown location")
)

// DefaultZone is the organization zone: deadlines are authored in it and it is
// the display zone for anyone without a locality.
const DefaultZone = "America/New_York"

type Location string

const (
	LocationUnset     Location = ""
	LocationCorporate Location = "CORPORATE"
	LocationACBO      Location = "ACBO"
	LocationWCBO      Location = "WCBO"
)

var knownLocations = map[Location]string{
	LocationCorporate: "America/New_York",
	LocationACBO:      "America/New_York",
	LocationWCBO:      "America/Los_Angeles",
}

// ParseLocation is case-insensitive; an empty value means no locality.
func ParseLocation(s string) (Location, error) {
	loc := Location(strings.ToUpper(strings.TrimSpace(s)))
	if loc == LocationUnset {
		return LocationUnset, nil
	}
	if _, ok := knownLocations[loc]; !ok {
		return LocationUnset, fmt.Errorf("%w: %q", ErrUnknownLocation, s)
	}
	return loc, nil
}

// Locations lists the known work sites in a stable order.
func Locations() []Location {
	out := make([]Location, 0, len(knownLocations))
	for loc := range knownLocations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LoadZone validates a caller-supplied IANA zone name. Empty and "Local" are
// refused because they do not name a real zone.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "Local") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeZone, name, err)
	}
	return loc, nil
}

type Resolver struct {
	defaultZone string
	zones       map[Location]string
}

// NewResolver validates the default zone and any configured overrides up
// front, so Resolve never hands out a name that does not load.
func NewResolver(defaultZone string, overrides map[string]string) (*Resolver, error) {
	if defaultZone == "" {
		defaultZone = DefaultZone
	}
	if _, err := LoadZone(defaultZone); err != nil {
		return nil, err
	}

	zones := make(map[Location]string, len(knownLocations))
	for loc, zone := range knownLocations {
		zones[loc] = zone
	}
	for name, zone := range overrides {
		loc, err := ParseLocation(name)
		if err != nil {
			return nil, err
		}
		if loc == LocationUnset {
			continue
		}
		if _, err := LoadZone(zone); err != nil {
			return nil, fmt.Errorf("location %s: %w", loc, err)
		}
		zones[loc] = zone
	}

	return &Resolver{defaultZone: defaultZone, zones: zones}, nil
}

func (r *Resolver) DefaultZone() string {
	return r.defaultZone
}

// Resolve falls back to the default zone for an unset or unknown location.
func (r *Resolver) Resolve(location Location) string {
	if zone, ok := r.zones[location]; ok {
		return zone
	}
	return r.defaultZone
}

// Locality is a work site together with the zone derived from it.
type Locality struct {
	location Location
	timezone string
}

func (r *Resolver) Locality(location Location) Locality {
	return Locality{location: location, timezone: r.Resolve(location)}
}

func (l Locality) Location() Location { return l.location }
func (l Locality) Timezone() string   { return l.timezone }

// Zone loads the derived zone. Resolver only produces names that load.
func (l Locality) Zone() (*time.Location, error) {
	return LoadZone(l.timezone)
}
