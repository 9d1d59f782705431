package main

import (
	"os"

	"conference-badge-api/core/logger"
	"conference-badge-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
