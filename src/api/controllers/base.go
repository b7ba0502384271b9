package controllers

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/config"
	"dashboard/src/display"
	"dashboard/src/repositories"
	"dashboard/src/schemas"
	"dashboard/src/timezones"
	"dashboard/src/utils"
	"errors"
	"time"

	"gorm.io/gorm"
)

type IController interface {
	GetMyReports(ctx context.Context, userID uint, disp display.Context) ([]schemas.ReportDeadline, error)
	GetReportDeadline(ctx context.Context, userID uint, slug string, disp display.Context) (*schemas.ReportDeadline, error)

	GetSettings(ctx context.Context, userID uint) (*schemas.SettingsResponse, error)
	UpdateLocation(ctx context.Context, userID uint, location string) (*schemas.SettingsResponse, error)
	ProfileZone(ctx context.Context, userID uint) (string, error)

	ListReports(ctx context.Context) ([]schemas.ReportSummaryResponse, error)
	GetReportDetail(ctx context.Context, slug string) (*schemas.ReportDetailResponse, error)
	CreateReport(ctx context.Context, req *schemas.ReportRequest) (*schemas.ReportResponse, error)
	UpdateReport(ctx context.Context, slug string, req *schemas.ReportRequest) (*schemas.ReportResponse, error)
	GrantAccess(ctx context.Context, slug string, userID uint, req *schemas.AccessRequest) (*schemas.AccessResponse, error)
	RevokeAccess(ctx context.Context, slug string, userID uint) error
	CreateUser(ctx context.Context, req *schemas.CreateUserRequest) (*schemas.UserResponse, error)

	PostToken(ctx context.Context, username, password string) (*schemas.TokenResponse, error)
}

type Controller struct {
	Reports   repositories.ReportRepository
	Users     repositories.UserRepository
	Access    repositories.AccessRepository
	Resolver  *timezones.Resolver
	Reference *time.Location
	Cache     utils.Store
	CacheTTL  time.Duration
	Tokens    *auth.TokenIssuer
	Now       func() time.Time
}

// NewController wires the repositories over db. Deadlines are computed in the
// configured reference zone.
func NewController(db *gorm.DB, cfg *config.Config, resolver *timezones.Resolver, cache utils.Store, tokens *auth.TokenIssuer) (*Controller, error) {
	reference, err := timezones.LoadZone(cfg.Timezones.ReferenceZone)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = utils.NewMemoryStore()
	}
	return &Controller{
		Reports:   repositories.NewReportRepository(db),
		Users:     repositories.NewUserRepository(db),
		Access:    repositories.NewAccessRepository(db),
		Resolver:  resolver,
		Reference: reference,
		Cache:     cache,
		CacheTTL:  cfg.Cache.TTL,
		Tokens:    tokens,
		Now:       time.Now,
	}, nil
}

// notFoundOr turns a missing row into a 404 with message and passes any other
// error through.
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(message)
	}
	return err
}

func conflictOr(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.Conflict(message)
	}
	return err
}
