package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("dashctl failed")
		os.Exit(1)
	}
}
