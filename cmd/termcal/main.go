package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"termcal/internal/backup"
	"termcal/internal/config"
	applog "termcal/internal/log"
	"termcal/internal/store"
	"termcal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	database   string
	debug      bool
}

func main() {
	applog.Info("termcal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		applog.SetLevel(applog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		applog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.database != "" {
		conf.Database = flags.database
	}

	applog.Info("effective config",
		"listen", conf.Listen,
		"database", conf.Database,
		"semester_start", conf.SemesterStart,
		"backup", conf.Backup != nil,
		"debug", flags.debug,
	)

	st, err := store.Open(conf.Database, store.Defaults{
		SemesterStart: conf.SemesterStart,
		TitleYear:     conf.TitleYear,
		TitleSemester: conf.TitleSemester,
	})
	if err != nil {
		applog.Error("failed to open store", err, "database", conf.Database)
		os.Exit(1)
	}
	defer st.Close()

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		applog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	var backupRunner *backup.Runner
	if conf.Backup != nil {
		backupRunner, err = backup.Start(st, conf.Backup.Cron, conf.Backup.Dir)
		if err != nil {
			applog.Error("failed to start backup scheduler", err, "cron", conf.Backup.Cron)
			os.Exit(1)
		}
	}

	if err := web.StartServer(ctx, conf, st, flags.debug); err != nil {
		applog.Error("HTTP server stopped", err)
	}

	if backupRunner != nil {
		backupRunner.Stop()
	}

	// Give in-flight log writes a moment before exit.
	time.Sleep(100 * time.Millisecond)
	applog.Info("termcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/termcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.database, "database", "", "SQLite database path (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Debug mode (verbose logging, local cache paths)")

	flag.Parse()

	return cfg
}
