package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/config"
	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/interval"
	"github.com/campus-oit/helpdesk-roster/internal/repository"
	"github.com/campus-oit/helpdesk-roster/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var sampleLocations = []domain.Location{
	{Name: "Front Desk", MinStaff: 2, MaxStaff: 3, Priority: 10, IsActive: true},
	{Name: "Phone Bank", MinStaff: 1, MaxStaff: 2, Priority: 5, IsActive: true},
	{Name: "Walk-in Annex", MinStaff: 1, MaxStaff: 1, Priority: 1, IsActive: true},
}

// sampleHolidays covers the upcoming academic year's closures relative to now.
func sampleHolidays() []domain.Holiday {
	year := time.Now().Year()
	return []domain.Holiday{
		{Name: "Labor Day", Date: time.Date(year, time.September, 7, 0, 0, 0, 0, time.UTC), IsClosed: true},
		{Name: "Thanksgiving", Date: time.Date(year, time.November, 26, 0, 0, 0, 0, time.UTC), IsClosed: true},
		{Name: "Winter Break", Date: time.Date(year, time.December, 21, 0, 0, 0, 0, time.UTC), IsClosed: true},
		{Name: "Reading Day", Date: time.Date(year, time.December, 10, 0, 0, 0, 0, time.UTC), IsClosed: false},
	}
}

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: insert random students, 2: insert sample locations, 3: insert random availability for all active students, 4: insert sample holidays)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
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

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to reach database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("invalid number of users")
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.UserPassword, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("failed to generate user", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("failed to insert user", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}
		slog.Info("users inserted", slog.Int("count", cnt))
	case 2:
		cnt := 0
		for _, loc := range sampleLocations {
			loc := loc
			if err := repo.CreateLocation(&loc); err != nil {
				slog.Error("failed to insert location", slog.String("name", loc.Name), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("locations inserted", slog.Int("count", cnt))
	case 3:
		students, err := repo.GetActiveStudents()
		if err != nil {
			slog.Error("failed to load students", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, s := range students {
			slots := utils.GenerateRandomAvailability(s.ID, interval.DayStartHour, interval.DayEndHour)
			normalized, err := interval.Normalize(s.ID, slots, true)
			if err != nil {
				slog.Error("failed to normalize availability", slog.Int64("user", s.ID), slog.String("error", err.Error()))
				continue
			}
			if _, err := repo.ReplaceAvailability(s.ID, normalized); err != nil {
				slog.Error("failed to insert availability", slog.Int64("user", s.ID), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("availability inserted", slog.Int("users", cnt))
	case 4:
		cnt := 0
		for _, h := range sampleHolidays() {
			h := h
			if err := repo.CreateHoliday(&h); err != nil {
				slog.Error("failed to insert holiday", slog.String("name", h.Name), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("holidays inserted", slog.Int("count", cnt))
	default:
		slog.Error("invalid operation")
	}
}
