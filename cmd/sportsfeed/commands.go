package main

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"

	"SportsFeed/internal/app"
	"SportsFeed/internal/config"
	"SportsFeed/internal/domain"
	"SportsFeed/internal/logging"
)

func rootApp() *cli.App {
	return &cli.App{
		Name:  "sportsfeed",
		Usage: "Sports news ingestion and enrichment pipeline",
		Description: `Pulls sports syndication feeds, keeps a bounded store of the
		last week of news and rewrites new entries through an OpenAI-compatible
		text generation API.

		Settings come from a YAML file (--config or SPORTSFEED_CONFIG) with
		environment overrides such as SPORTSFEED_LLM_API_KEY.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"SPORTSFEED_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			refreshCmd(),
			scoresCmd(),
			reportCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return cli.ShowAppHelp(ctx)
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API and run scheduled refreshes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
			&cli.BoolFlag{
				Name:  "auto-refresh",
				Usage: "Enable the refresh scheduler regardless of configuration",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg := loadConfig(ctx)
			if addr := ctx.String("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if ctx.Bool("auto-refresh") {
				cfg.Scheduler.Enabled = true
			}

			application, err := newApplication(ctx, cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Serve(ctx.Context)
		},
	}
}

func refreshCmd() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Fetch all feeds once, run one enrichment pass and print the stored news",
		Action: func(ctx *cli.Context) error {
			application, err := newApplication(ctx, loadConfig(ctx))
			if err != nil {
				return err
			}
			defer application.Close()

			if _, err := application.Pipeline().Refresh(ctx.Context); err != nil {
				return err
			}
			application.Worker().Wait()
			return printJSON(application.Pipeline().Stored(ctx.Context))
		},
	}
}

func scoresCmd() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "Print fixtures and results parsed from the score feeds",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "analyze",
				Usage: "Attach a short generated commentary to every match",
			},
		},
		Action: func(ctx *cli.Context) error {
			application, err := newApplication(ctx, loadConfig(ctx))
			if err != nil {
				return err
			}
			defer application.Close()

			pipeline := application.Pipeline()
			scores := pipeline.Scores(ctx.Context)
			if !ctx.Bool("analyze") {
				return printJSON(scores)
			}

			type analyzed struct {
				Match    domain.ScoreItem `json:"match"`
				Analysis string           `json:"analysis"`
			}
			out := make([]analyzed, 0, len(scores))
			for _, score := range scores {
				out = append(out, analyzed{Match: score, Analysis: pipeline.Analyze(ctx.Context, score)})
			}
			return printJSON(out)
		},
	}
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Generate a status report of the stored news",
		Action: func(ctx *cli.Context) error {
			application, err := newApplication(ctx, loadConfig(ctx))
			if err != nil {
				return err
			}
			defer application.Close()

			stats, text := application.Pipeline().Report(ctx.Context)
			return printJSON(map[string]any{"stats": stats, "report": text})
		},
	}
}

func loadConfig(ctx *cli.Context) config.Config {
	cfg := config.LoadFile(ctx.String("config"))
	if level := ctx.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg
}

func newApplication(ctx *cli.Context, cfg config.Config) (*app.Application, error) {
	logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	return app.New(ctx.Context, cfg, logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
