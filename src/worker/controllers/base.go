package controllers

import (
	"dashboard/src/repositories"
	"dashboard/src/scheduler"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Controller struct {
	Access         repositories.AccessRepository
	Logger         *logrus.Logger
	Now            func() time.Time
	SchedulerMutex sync.Mutex
	pruneTask      *scheduler.ScheduledTask
}

func NewController(db *gorm.DB, logger *logrus.Logger) *Controller {
	return &Controller{
		Access: repositories.NewAccessRepository(db),
		Logger: logger,
		Now:    time.Now,
	}
}
