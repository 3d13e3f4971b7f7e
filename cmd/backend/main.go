package main

import (
	"academy/internal/api"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("App start")
	if err := api.StartServer(); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("App terminated")
}
