package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/geck-tools/geck/internal/api"
	"github.com/geck-tools/geck/internal/config"
	"github.com/geck-tools/geck/internal/importer"
	"github.com/geck-tools/geck/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("geckd %s (commit: %s, built: %s)\n", version, commit, date)
			os.Exit(0)
		}
	}

	cfg := config.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	server := &api.Server{
		Contexts: models.NewContextStore(),
		Programs: models.NewProgramStore(),
		Users:    models.NewUserStore(),
		Jobs:     models.NewJobStore(),
		Log:      log,
	}
	server.Importer = importer.New(server.Contexts, server.Programs, server.Users, cfg.DefinitionsDir, log)

	// Apply seed definitions before accepting traffic
	if cfg.SeedFile != "" {
		job := server.Jobs.Create("seed", "all")
		result, err := server.Importer.Seed(cfg.SeedFile, job.AppendLog)
		if err != nil {
			job.Fail(err.Error())
			log.WithError(err).Fatal("seed failed")
		}
		job.Complete()
		s := result.Summary
		log.WithFields(logrus.Fields{
			"file":     cfg.SeedFile,
			"imported": s.Imported,
			"updated":  s.Updated,
			"failed":   s.Failed,
		}).Info("seed applied")
	}

	handler := api.NewRouter(server)

	log.WithFields(logrus.Fields{
		"version":         version,
		"listen":          cfg.Listen,
		"definitions_dir": cfg.DefinitionsDir,
	}).Info("geckd starting")

	if err := http.ListenAndServe(cfg.Listen, handler); err != nil {
		log.Fatal(err)
	}
}
