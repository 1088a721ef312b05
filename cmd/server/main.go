package main

import (
	"context"
	"log"

	"github.com/juju/clock"
	"github.com/labstack/echo/v4"

	"carstock/internal/backup"
	"carstock/internal/catalog"
	"carstock/internal/config"
	"carstock/internal/handler"
	"carstock/internal/imghost"
	"carstock/internal/repository"
	"carstock/internal/router"
	"carstock/internal/store"
	"carstock/internal/telegram"
)

func main() {
	cfg := config.Load()
	settings := config.NewSettings(cfg)
	clk := clock.WallClock

	users := store.NewUserStore(cfg.UsersFile, clk)
	sessions := store.NewSessionStore(cfg.SessionsFile, clk)

	db := repository.NewConvexClient(cfg.DatabaseURL)
	facade := catalog.New(db, clk)

	bot := telegram.NewClient("", settings)
	mirror := telegram.NewMirror(bot, clk)
	images := imghost.New("", settings)

	backups := backup.NewService(facade, db, bot, clk, cfg.BackupDir)
	scheduler := backup.NewScheduler(backups, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(users, sessions, db),
		Users:    handler.NewUserHandler(users),
		Products: handler.NewProductHandler(facade, images, mirror),
		Stats:    handler.NewStatsHandler(facade),
		Settings: handler.NewSettingsHandler(cfg, settings),
		Backups:  handler.NewBackupHandler(backups, facade, bot),
		Transfer: handler.NewTransferHandler(facade, mirror),
		Health:   handler.NewHealthHandler(bot, images),
	}, sessions)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
