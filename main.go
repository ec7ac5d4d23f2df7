package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"xkcdpaper/cache"
	"xkcdpaper/comic"

	"github.com/alecthomas/kong"
)

var (
	version   = "dev"
	userAgent = cache.AppName + "/" + version
)

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(cache.AppName),
		kong.Description("Set a recolored xkcd comic as the desktop wallpaper."),
		kong.Vars{"base_url": comic.DefaultBaseURL},
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	}, options...)
	if home, err := os.UserHomeDir(); err == nil {
		options = append(options, kong.Configuration(kong.JSON, filepath.Join(home, ".config", cache.AppName, "config.json")))
	}
	return kong.New(cli, options...)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func run(ctx context.Context, args []string, options ...kong.Option) int {
	var cli CLI
	parser, err := newParser(&cli, options...)
	if err != nil {
		slog.Error("invalid command line model", "error", err)
		return 1
	}

	if _, err = parser.Parse(args); err != nil {
		slog.Error("invalid arguments", "error", err)
		return 1
	}

	logger := newLogger(cli.LogLevel)
	slog.SetDefault(logger)

	if err := cli.Run(ctx, logger); err != nil {
		logger.Error("could not update the wallpaper", "error", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}
