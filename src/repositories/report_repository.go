package repositories

import (
	"context"
	"dashboard/src/models"

	"gorm.io/gorm"
)

// ReportSummary is a report with the number of users holding a grant on it.
type ReportSummary struct {
	models.Report
	UserCount int64 `gorm:"column:user_count"`
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	GetBySlug(ctx context.Context, slug string) (*models.Report, error)
	ListWithUserCount(ctx context.Context) ([]ReportSummary, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// Update writes every column, so clearing the weekday or time persists.
func (r *reportRepo) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepo) GetBySlug(ctx context.Context, slug string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListWithUserCount returns every report ordered by name. Expired grants are
// still counted.
func (r *reportRepo) ListWithUserCount(ctx context.Context) ([]ReportSummary, error) {
	summaries := []ReportSummary{}
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Select("reports.*, COUNT(user_report_access.id) AS user_count").
		Joins("LEFT JOIN user_report_access ON user_report_access.report_id = reports.id").
		Group("reports.id").
		Order("reports.name").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
