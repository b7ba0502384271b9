package models

import "time"

type User struct {
	ID        uint         `gorm:"primaryKey;column:id" json:"id"`
	Username  string       `gorm:"column:username;uniqueIndex;size:150;not null" json:"username"`
	Email     string       `gorm:"column:email" json:"email"`
	Password  string       `gorm:"column:password;not null" json:"-"`
	IsStaff   bool         `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	IsActive  bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Profile   *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile holds the work location of a user and the timezone derived
// from it. Timezone is only ever written together with Location.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"-"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Location  string    `gorm:"column:location;size:20;not null;default:''" json:"location"`
	Timezone  string    `gorm:"column:timezone;size:50;not null;default:''" json:"timezone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
