package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"xkcdpaper/cache"
	"xkcdpaper/comic"
	"xkcdpaper/duotone"
	"xkcdpaper/palette"
	"xkcdpaper/resolve"
	"xkcdpaper/selection"
	"xkcdpaper/wallpaper"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2"
	"github.com/spf13/afero"
)

type CLI struct {
	Mode       selection.Mode  `short:"m" help:"Comic selection: random, last or a comic number" default:"random" env:"XKCD_PAPER_MODE" placeholder:"random/last/<number>"`
	Size       duotone.Size    `short:"s" help:"Screen size. With several screens, use the biggest one" default:"1366x768" env:"XKCD_PAPER_SIZE" placeholder:"<width>x<height>"`
	Padding    duotone.Padding `short:"p" help:"Padding around the comic" default:"20:20" env:"XKCD_PAPER_PADDING" placeholder:"<horizontal>:<vertical>"`
	Foreground duotone.Color   `short:"f" help:"Foreground color" default:"4ECDC4" env:"XKCD_PAPER_FOREGROUND" placeholder:"RRGGBB"`
	Background duotone.Color   `short:"b" help:"Background color" default:"002A32" env:"XKCD_PAPER_BACKGROUND" placeholder:"RRGGBB"`

	Palette  string `help:"RIFF PAL file whose first two colors replace foreground and background" type:"existingfile" group:"colors"`
	Workers  int    `help:"Recolor workers, 0 for one per CPU" default:"0"`
	Output   string `help:"Also write the final PNG to this path" type:"path" group:"output"`
	NoSet    bool   `help:"Do not hand the image to the wallpaper program" group:"output"`
	Setter   string `help:"Wallpaper program and arguments, fed the PNG on stdin" default:"feh --bg-center -" group:"output"`
	CacheDir string `help:"Cache folder, defaults to $HOME/.cache/xkcd-paper" type:"path"`
	BaseURL  string `help:"Comic API root" default:"${base_url}"`
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`

	rng selection.Source `kong:"-"`
}

func (c *CLI) Validate(kctx *kong.Context) error {
	canvas := duotone.Canvas{Size: c.Size, Padding: c.Padding}
	if err := canvas.Validate(); err != nil {
		return err
	}

	if c.Workers < 0 {
		return fmt.Errorf("invalid number of workers: %d", c.Workers)
	}

	if len(strings.Fields(c.Setter)) == 0 && !c.NoSet {
		return errors.New("no wallpaper program given")
	}

	if c.Palette != "" {
		fg, bg, err := palette.LoadDuotone(c.Palette)
		if err != nil {
			return err
		}
		c.Foreground, c.Background = duotone.Color(fg), duotone.Color(bg)
	}

	return nil
}

func (c *CLI) Run(ctx context.Context, logger *slog.Logger) error {
	client := comic.NewClient(c.BaseURL, userAgent)
	index, err := c.pick(ctx, logger, client)
	if err != nil {
		return err
	}
	logger = logger.With("index", index)

	resolver := &resolve.Resolver{
		Cache:  c.cache(logger),
		Source: client,
		Logger: logger,
	}
	raw, err := resolver.Bytes(ctx, index)
	if err != nil {
		return err
	}

	img, err := duotone.Transform(logger, raw, duotone.Options{
		Canvas:     duotone.Canvas{Size: c.Size, Padding: c.Padding},
		Foreground: c.Foreground,
		Background: c.Background,
		Workers:    c.Workers,
	})
	if err != nil {
		return fmt.Errorf("could not transform comic %d: %w", index, err)
	}
	logger.Info("rendered wallpaper", "size", c.Size, "bytes", humanize.Bytes(uint64(len(img))))

	if c.Output != "" {
		if err := renameio.WriteFile(c.Output, img, 0o644); err != nil {
			return fmt.Errorf("could not write %q: %w", c.Output, err)
		}
		logger.Info("saved wallpaper", "path", c.Output)
	}

	if c.NoSet {
		return nil
	}

	fields := strings.Fields(c.Setter)
	setter := wallpaper.Setter{Program: fields[0], Args: fields[1:]}
	if err := setter.Set(ctx, img); err != nil {
		return fmt.Errorf("could not set the wallpaper: %w", err)
	}
	return nil
}

func (c *CLI) cache(logger *slog.Logger) resolve.Cache {
	dir := c.CacheDir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			logger.Warn("running without cache", "error", err)
			return cache.Unavailable{Err: err}
		}
	}
	return cache.NewStore(afero.NewOsFs(), dir)
}

// pick resolves the requested mode to a comic number. An explicit number is
// still usable from the cache when the latest comic cannot be queried.
func (c *CLI) pick(ctx context.Context, logger *slog.Logger, client *comic.Client) (int, error) {
	last, err := client.Latest(ctx)
	if err != nil {
		if c.Mode.Kind != selection.Nth {
			return 0, fmt.Errorf("could not query the latest comic: %w", err)
		}
		logger.Warn("could not query the latest comic, skipping range check", "error", err)
		if c.Mode.N < 1 {
			return 0, fmt.Errorf("%w: %d", selection.ErrOutOfRange, c.Mode.N)
		}
		return c.Mode.N, nil
	}

	rng := c.rng
	if rng == nil {
		rng = globalRand{}
	}

	index, err := selection.Select(c.Mode, last, rng)
	if err != nil {
		return 0, err
	}
	if err := selection.Validate(index, last); err != nil {
		return 0, fmt.Errorf("%s is not a valid comic: %w", c.Mode, err)
	}

	logger.Debug("picked comic", "mode", c.Mode, "last", last, "index", index)
	return index, nil
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}
