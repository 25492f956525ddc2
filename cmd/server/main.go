package main

import (
	"github.com/mythograph/backend/internal/server"
	"github.com/mythograph/backend/internal/util"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
