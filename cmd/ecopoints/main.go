package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/config"
	"github.com/ecopoints/ecopoints/internal/events"
	"github.com/ecopoints/ecopoints/internal/lock"
	"github.com/ecopoints/ecopoints/internal/logger"
	"github.com/ecopoints/ecopoints/internal/migration"
	"github.com/ecopoints/ecopoints/internal/observability"
	"github.com/ecopoints/ecopoints/internal/server"
	"github.com/ecopoints/ecopoints/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure.
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		lock.Module,

		// Schema, background jobs, HTTP surface.
		migration.Module,
		events.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
