package models

import (
	"dashboard/src/deadlines"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type Report struct {
	ID                uint      `gorm:"primaryKey;column:id"`
	Name              string    `gorm:"column:name;uniqueIndex;size:200;not null"`
	Slug              string    `gorm:"column:slug;uniqueIndex;size:200;not null"`
	Description       string    `gorm:"column:description;not null;default:''"`
	Cadence           string    `gorm:"column:cadence;size:10;not null"`
	DayOfWeekDeadline *int      `gorm:"column:day_of_week_deadline"`
	TimeDeadline      *string   `gorm:"column:time_deadline;size:8"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}

// BeforeSave fills in the slug from the name when none was given.
func (r *Report) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(r.Slug) == "" {
		r.Slug = Slugify(r.Name)
	}
	return nil
}

// Schedule converts the stored cadence, weekday and time into a deadline
// schedule. Rows that cannot be expressed, such as a Monthly cadence written
// before that cadence was rejected, come back as an error alongside
// NoDeadline.
func (r Report) Schedule() (deadlines.Schedule, error) {
	cadence, err := deadlines.ParseCadence(r.Cadence)
	if err != nil {
		return deadlines.NoDeadline(), err
	}

	var slot *deadlines.TimeSlot
	if r.TimeDeadline != nil && *r.TimeDeadline != "" {
		parsed, err := deadlines.ParseTimeSlot(*r.TimeDeadline)
		if err != nil {
			return deadlines.NoDeadline(), err
		}
		slot = &parsed
	}

	schedule, err := deadlines.NewSchedule(cadence, r.DayOfWeekDeadline, slot)
	if err != nil {
		return deadlines.NoDeadline(), err
	}
	return schedule, nil
}

// Slugify lowercases name, drops accents and anything that is not a letter,
// digit, underscore or hyphen, and joins the remaining words with hyphens.
func Slugify(name string) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return strings.Trim(b.String(), "-_")
}

type Role string

const (
	RoleView  Role = "view"
	RoleEdit  Role = "edit"
	RoleOwner Role = "owner"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return RoleEdit, true
	case RoleView:
		return RoleView, true
	case RoleEdit:
		return RoleEdit, true
	case RoleOwner:
		return RoleOwner, true
	}
	return "", false
}

type UserReportAccess struct {
	ID        uint       `gorm:"primaryKey;column:id"`
	UserID    uint       `gorm:"column:user_id;not null;uniqueIndex:idx_access_user_report,priority:1;index:idx_access_report_user,priority:2"`
	ReportID  uint       `gorm:"column:report_id;not null;uniqueIndex:idx_access_user_report,priority:2;index:idx_access_report_user,priority:1"`
	Role      Role       `gorm:"column:role;size:10;not null;default:edit"`
	GrantedAt time.Time  `gorm:"column:granted_at;autoCreateTime"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Report    Report     `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

func (UserReportAccess) TableName() string {
	return "user_report_access"
}

// ActiveAt reports whether the grant is still valid at now.
func (a UserReportAccess) ActiveAt(now time.Time) bool {
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}
