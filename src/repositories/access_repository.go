package repositories

import (
	"context"
	"dashboard/src/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessRepository interface {
	Grant(ctx context.Context, access *models.UserReportAccess) error
	Revoke(ctx context.Context, userID, reportID uint) error
	ListActiveForUser(ctx context.Context, userID uint, now time.Time) ([]models.UserReportAccess, error)
	ListForReport(ctx context.Context, reportID uint) ([]models.UserReportAccess, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type accessRepo struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) AccessRepository {
	return &accessRepo{db: db}
}

// Grant inserts the grant or, when the user already has one on the report,
// replaces its role and expiry. The original granted_at is kept.
func (r *accessRepo) Grant(ctx context.Context, access *models.UserReportAccess) error {
	if access.Role == "" {
		access.Role = models.RoleEdit
	}
	if access.ExpiresAt != nil {
		expires := access.ExpiresAt.UTC()
		access.ExpiresAt = &expires
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("User", "Report").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "report_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "expires_at"}),
		}).Create(access).Error
		if err != nil {
			return err
		}
		var stored models.UserReportAccess
		if err := tx.Where("user_id = ? AND report_id = ?", access.UserID, access.ReportID).First(&stored).Error; err != nil {
			return err
		}
		*access = stored
		return nil
	})
}

// Revoke deletes the grant and reports gorm.ErrRecordNotFound when there was
// none.
func (r *accessRepo) Revoke(ctx context.Context, userID, reportID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND report_id = ?", userID, reportID).
		Delete(&models.UserReportAccess{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActiveForUser returns the grants of userID that have not expired at
// now, with their reports loaded, ordered by report name.
func (r *accessRepo) ListActiveForUser(ctx context.Context, userID uint, now time.Time) ([]models.UserReportAccess, error) {
	grants := []models.UserReportAccess{}
	err := r.db.WithContext(ctx).
		Joins("JOIN reports ON reports.id = user_report_access.report_id").
		Preload("Report").
		Where("user_report_access.user_id = ?", userID).
		Where("(user_report_access.expires_at IS NULL OR user_report_access.expires_at > ?)", now.UTC()).
		Order("reports.name").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// ListForReport returns every grant on the report, expired or not, with
// users loaded and ordered by username.
func (r *accessRepo) ListForReport(ctx context.Context, reportID uint) ([]models.UserReportAccess, error) {
	grants := []models.UserReportAccess{}
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = user_report_access.user_id").
		Preload("User").
		Where("user_report_access.report_id = ?", reportID).
		Order("users.username").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *accessRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now.UTC()).
		Delete(&models.UserReportAccess{})
	return res.RowsAffected, res.Error
}
