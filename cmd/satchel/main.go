package main

import (
	"context"

	"github.com/pixil98/go-satchel/cmd/satchel/command"
	"github.com/pixil98/go-service"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		logger.WithError(err).Fatal("creating application")
	}

	err = app.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("running application")
	}

	logger.Info("exiting")
}
