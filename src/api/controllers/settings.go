package controllers

import (
	"context"
	"dashboard/src/models"
	"dashboard/src/schemas"
	"dashboard/src/timezones"
	"dashboard/src/utils"
	"errors"

	"gorm.io/gorm"
)

// GetSettings returns the caller's profile, creating it with the default
// zone if the user never had one.
func (c *Controller) GetSettings(ctx context.Context, userID uint) (*schemas.SettingsResponse, error) {
	user, err := c.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	profile := user.Profile
	if profile == nil {
		profile, err = c.Users.SaveLocality(ctx, userID, c.Resolver.Locality(timezones.LocationUnset))
		if err != nil {
			return nil, err
		}
	}
	return settingsResponse(user, profile), nil
}

// UpdateLocation stores a new work location and the zone derived from it.
func (c *Controller) UpdateLocation(ctx context.Context, userID uint, location string) (*schemas.SettingsResponse, error) {
	loc, err := timezones.ParseLocation(location)
	if err != nil {
		return nil, utils.Unprocessable(err.Error())
	}

	user, err := c.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	profile, err := c.Users.SaveLocality(ctx, userID, c.Resolver.Locality(loc))
	if err != nil {
		return nil, err
	}
	return settingsResponse(user, profile), nil
}

// ProfileZone returns the stored zone of the user, or "" when the user has no
// profile yet.
func (c *Controller) ProfileZone(ctx context.Context, userID uint) (string, error) {
	profile, err := c.Users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return profile.Timezone, nil
}

func settingsResponse(user *models.User, profile *models.UserProfile) *schemas.SettingsResponse {
	locations := timezones.Locations()
	names := make([]string, 0, len(locations))
	for _, l := range locations {
		names = append(names, string(l))
	}
	return &schemas.SettingsResponse{
		Username:  user.Username,
		Location:  profile.Location,
		Timezone:  profile.Timezone,
		Locations: names,
	}
}
