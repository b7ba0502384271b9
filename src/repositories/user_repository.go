package repositories

import (
	"context"
	"dashboard/src/models"
	"dashboard/src/timezones"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User, locality timezones.Locality) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	SaveLocality(ctx context.Context, userID uint, locality timezones.Locality) (*models.UserProfile, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts the user and its profile in one transaction.
func (r *userRepo) Create(ctx context.Context, user *models.User, locality timezones.Locality) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		profile := &models.UserProfile{
			UserID:   user.ID,
			Location: string(locality.Location()),
			Timezone: locality.Timezone(),
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveLocality creates or updates the profile of userID. Location and
// timezone are always written together.
func (r *userRepo) SaveLocality(ctx context.Context, userID uint, locality timezones.Locality) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		UserID:   userID,
		Location: string(locality.Location()),
		Timezone: locality.Timezone(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location", "timezone", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, userID)
}
