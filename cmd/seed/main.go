package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/config"
	"github.com/tabletop-club/table-scheduler/internal/repository"
	"github.com/tabletop-club/table-scheduler/internal/schedule"
	"github.com/tabletop-club/table-scheduler/internal/seed"
)

func main() {
	var op int
	var n int
	var days int
	var password string
	var emailDomain string

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random members, 2: open upcoming schedules)")
	flag.IntVar(&n, "n", 5, "number of members to insert")
	flag.IntVar(&days, "days", 7, "how many days ahead to open schedules")
	flag.StringVar(&password, "password", "table@test1234", "password for seeded members")
	flag.StringVar(&emailDomain, "domain", "example.com", "email domain for seeded members")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open only builds the pool; ping to verify the database is reachable.
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("member count must be positive")
			return
		}
		count := seed.SeedMembers(repo, n, password, emailDomain)
		slog.Info("members inserted", slog.Int("count", count))
	case 2:
		document, err := config.LoadDocument(cfg.Schedule.DocumentPath)
		if err != nil {
			logger.Error("failed to load schedule document", slog.String("error", err.Error()))
			return
		}

		translator, err := calendar.NewTranslator(calendar.SystemClock{}, calendar.DefaultDateFormat)
		if err != nil {
			logger.Error("failed to create date translator", slog.String("error", err.Error()))
			return
		}

		codec := schedule.NewCodec(translator, document.Week, cfg.Schedule.EscapeToken)
		count := seed.SeedSchedules(repo, codec, days)
		slog.Info("schedules opened", slog.Int("count", count))
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}
