package schemas

import (
	"time"
)

// ReportDeadline is one row of a user's board: a report the user can access
// and how long remains until its next deadline in the display zone.
type ReportDeadline struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Role        string     `json:"role"`
	Cadence     string     `json:"cadence"`
	Schedule    string     `json:"schedule"`
	HasDeadline bool       `json:"has_deadline"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Countdown   string     `json:"countdown"`
	IsOverdue   bool       `json:"is_overdue"`
	Zone        string     `json:"zone"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ReportRequest is used for both creating and updating a report. Time is
// "HH:MM" or "HH:MM:SS" in the reference zone.
type ReportRequest struct {
	Name              string  `json:"name"`
	Slug              string  `json:"slug"`
	Description       string  `json:"description"`
	Cadence           string  `json:"cadence"`
	DayOfWeekDeadline *int    `json:"day_of_week_deadline"`
	TimeDeadline      *string `json:"time_deadline"`
}

type ReportResponse struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Cadence           string    `json:"cadence"`
	DayOfWeekDeadline *int      `json:"day_of_week_deadline"`
	TimeDeadline      *string   `json:"time_deadline"`
	Schedule          string    `json:"schedule"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ReportSummaryResponse struct {
	ReportResponse
	UserCount int64 `json:"user_count"`
}

type ReportDetailResponse struct {
	ReportResponse
	Access []AccessResponse `json:"access"`
}

type AccessRequest struct {
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type AccessResponse struct {
	UserID    uint       `json:"user_id"`
	Username  string     `json:"username"`
	ReportID  uint       `json:"report_id"`
	Role      string     `json:"role"`
	GrantedAt time.Time  `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
}
