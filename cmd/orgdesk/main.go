package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/orgdesk/orgdesk/internal/clock"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/logger"
	"github.com/orgdesk/orgdesk/internal/member"
	"github.com/orgdesk/orgdesk/internal/metrics"
	"github.com/orgdesk/orgdesk/internal/migration"
	"github.com/orgdesk/orgdesk/internal/organization"
	"github.com/orgdesk/orgdesk/internal/server"
	"github.com/orgdesk/orgdesk/internal/token"
	"github.com/orgdesk/orgdesk/internal/user"
	"github.com/orgdesk/orgdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		token.Module,

		// Functional domains
		user.Module,
		organization.Module,
		member.Module,

		migration.Module,
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
