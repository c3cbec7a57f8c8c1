package main

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := xcontext.WithDB(context.Background(), s.db)
	ctx = xcontext.WithLogger(ctx, s.logger)

	return entity.MigrateTable(ctx)
}
