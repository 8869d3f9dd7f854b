package main

import (
	"context"

	config "github.com/NordCoder/Todorus/internal/config/todo-api"
	pg "github.com/NordCoder/Todorus/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}
