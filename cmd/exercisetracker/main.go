// The exercisetracker binary serves the exercise tracker HTTP API.
package main

import (
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/exercisetracker/internal/app"
	"github.com/patric-chuzhbe/exercisetracker/internal/logger"
)

func main() {
	a, err := app.New()
	if err != nil {
		panic(err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Log.Errorw("server stopped with error", zap.Error(err))
	}
}
