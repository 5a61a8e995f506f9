package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"albot/config"
	"albot/internal/albionapi"
	"albot/internal/bot"
	"albot/internal/store"
)

func main() {

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Secrets may live in a .env file next to the binary
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on the environment")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not load configuration: %v", err))
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Database
	db, err := store.Open(cfg.Database.DSN())
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not open database: %v", err))
		os.Exit(1)
	}
	defer store.Close(db)

	// Albion API client
	api := albionapi.NewClient(cfg.Albion.BaseURL, cfg.Albion.CommonRestrictions())

	// Run bot
	if err := bot.New(cfg, db, api).Run(); err != nil {
		log.Error().Msg(fmt.Sprintf("Bot stopped with error: %v", err))
		os.Exit(1)
	}
}
