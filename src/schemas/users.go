package schemas

import "time"

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsStaff  bool   `json:"is_staff"`
	Location string `json:"location"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
	Location string `json:"location"`
	Timezone string `json:"timezone"`
}

type SettingsResponse struct {
	Username  string   `json:"username"`
	Location  string   `json:"location"`
	Timezone  string   `json:"timezone"`
	Locations []string `json:"locations"`
}

type UpdateSettingsRequest struct {
	Location string `json:"location"`
}

type PruneResponse struct {
	Deleted int64 `json:"deleted"`
}

type PruneStatusResponse struct {
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run"`
}
