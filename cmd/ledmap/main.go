package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledmap/internal/config"
	diag "github.com/coreman2200/ledmap/internal/diagnostics"
	"github.com/coreman2200/ledmap/internal/layout"
	"github.com/coreman2200/ledmap/internal/led"
	"github.com/coreman2200/ledmap/internal/logger"
	"github.com/coreman2200/ledmap/internal/mapper"
	"github.com/coreman2200/ledmap/internal/sweep"
	"github.com/coreman2200/ledmap/internal/ws"
)

// options are the command-line settings that are not part of config.yaml.
type options struct {
	ConfigPath string
	Sweep      string
	In         string
	// CfgErr is a config file load failure; flags still apply over the defaults.
	CfgErr error
}

// resolveConfig parses args into fs and layers the result: defaults < config
// file < flags given on the command line.
func resolveConfig(fs *flag.FlagSet, args []string) (*config.Config, options, error) {
	def := config.Default()
	var (
		x          = fs.Int("x", def.Dim.X, "lattice size along X")
		y          = fs.Int("y", def.Dim.Y, "lattice size along Y")
		z          = fs.Int("z", def.Dim.Z, "lattice size along Z")
		mapperName = fs.String("mapper", def.Mapper, "mapper: volumetric | walled")
		pixels     = fs.Int("pixels", 0, "pixel count set on the controller (0 = unchecked)")
		strict     = fs.Bool("strict", false, "exit non-zero when the map length does not match -pixels")
		configPath = fs.String("config", "", "path to config.yaml")
		in         = fs.String("in", "", "convert this JSON map (- for stdin) instead of generating one")
		out        = fs.String("out", "-", "output file (- for stdout)")
		format     = fs.String("format", def.Output.Format, "output format: json | json2d | js")
		scale      = fs.Float64("scale", def.Output.Scale, "coordinate multiplier")
		center     = fs.Bool("center", false, "centre the map on the origin")
		serve      = fs.String("serve", "", "serve the map over HTTP on this address instead of writing it")
		sweepKind  = fs.String("sweep", "", "run a wiring sweep: "+kindList())
		driver     = fs.String("driver", def.Driver, "sweep driver: sim | spi")
		spiDev     = fs.String("spi-dev", "", "periph SPI port name (empty = first available)")
		speedHz    = fs.Int("spi-speed-hz", def.SPI.SpeedHz, "SPI clock for the NRZ encoder")
		fps        = fs.Int("fps", def.Sweep.FPS, "sweep frames per second")
		logLevel   = fs.String("log-level", def.Log.Level, "log level: debug | info | warn | error")
		logFile    = fs.String("log-file", "", "also log to this file, rotated")
	)
	if err := fs.Parse(args); err != nil {
		return nil, options{}, err
	}
	opts := options{ConfigPath: *configPath, Sweep: *sweepKind, In: *in}

	cfg := def
	if opts.ConfigPath != "" {
		if c, err := config.Load(opts.ConfigPath); err != nil {
			opts.CfgErr = err
		} else {
			cfg = c
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			cfg.Dim.X = *x
		case "y":
			cfg.Dim.Y = *y
		case "z":
			cfg.Dim.Z = *z
		case "mapper":
			cfg.Mapper = *mapperName
		case "pixels":
			cfg.PixelCount = *pixels
		case "strict":
			cfg.Strict = *strict
		case "out":
			cfg.Output.Path = *out
		case "format":
			cfg.Output.Format = *format
		case "scale":
			cfg.Output.Scale = *scale
		case "center":
			cfg.Output.Center = *center
		case "serve":
			cfg.Server.Addr = *serve
			cfg.Server.Enabled = true
		case "driver":
			cfg.Driver = *driver
		case "spi-dev":
			cfg.SPI.Dev = *spiDev
		case "spi-speed-hz":
			cfg.SPI.SpeedHz = *speedHz
		case "fps":
			cfg.Sweep.FPS = *fps
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-file":
			cfg.Log.File = *logFile
		}
	})
	return cfg, opts, nil
}

func kindList() string {
	names := make([]string, len(sweep.Kinds))
	for i, k := range sweep.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, " | ")
}

// strictFail reports whether a strict run must stop on ds.
func strictFail(strict bool, ds []diag.Diagnostic) error {
	if !strict {
		return nil
	}
	switch w := diag.Worst(ds); w {
	case diag.Warn, diag.Err:
		return fmt.Errorf("strict: map diagnostics at %s level", w)
	}
	return nil
}

func main() {
	cfg, opts, err := resolveConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// ---- Logging ----
	closer := logger.Init(cfg.Log.Level, cfg.Log.File)
	defer closer.Close()
	if opts.CfgErr != nil {
		log.Warn().Err(opts.CfgErr).Str("path", opts.ConfigPath).Msg("config load failed; proceeding with flags")
	}

	if opts.In != "" {
		ps, err := readMap(opts.In)
		if err != nil {
			log.Fatal().Err(err).Msg("read map failed")
		}
		log.Info().Str("in", opts.In).Int("count", len(ps)).Msg("map read")
		if err := writeOutput(cfg.Output, prepare(cfg.Output, ps)); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("write map failed")
		}
		return
	}

	// ---- Build map ----
	l := layout.Layout{
		Dim:        mapper.Dim{X: cfg.Dim.X, Y: cfg.Dim.Y, Z: cfg.Dim.Z},
		Mapper:     cfg.Mapper,
		PixelCount: cfg.PixelCount,
	}
	reg := mapper.NewRegistry()
	m, err := l.Build(reg)
	if err != nil {
		log.Fatal().Err(err).Strs("mappers", reg.List()).Msg("cannot build map")
	}
	log.Info().
		Str("mapper", l.Mapper).
		Int("x", l.Dim.X).Int("y", l.Dim.Y).Int("z", l.Dim.Z).
		Int("count", len(m)).
		Msg("map generated")

	ds := mapper.Validate(m, l.PixelCount)
	diag.Log(log.Logger, ds)
	if err := strictFail(cfg.Strict, ds); err != nil {
		log.Fatal().Err(err).Msg("map length does not match pixel count")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.Sweep != "":
		if err := runSweep(ctx, cfg, l, m, sweep.Kind(opts.Sweep)); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("sweep failed")
		}
	case cfg.Server.Enabled:
		if err := runServer(ctx, cfg, l, reg, opts.ConfigPath); err != nil {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	default:
		if err := writeOutput(cfg.Output, points(cfg.Output, m)); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("write map failed")
		}
	}
}

func runServer(ctx context.Context, cfg *config.Config, l layout.Layout, reg *mapper.Registry, configPath string) error {
	state, err := ws.NewState(l, reg)
	if err != nil {
		return err
	}
	state.Config = cfg
	state.ConfigPath = configPath

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      state.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runSweep(ctx context.Context, cfg *config.Config, l layout.Layout, m mapper.Map, kind sweep.Kind) error {
	r, err := sweep.NewRunner(kind, m, l.Dim)
	if err != nil {
		return err
	}

	var drv led.Driver
	switch cfg.Driver {
	case "spi":
		freq := physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		d, err := led.OpenNRZ(cfg.SPI.Dev, len(m), freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			drv = led.NewSim(len(m))
		} else {
			drv = d
		}
	case "sim":
		drv = led.NewSim(len(m))
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		drv = led.NewSim(len(m))
	}
	defer drv.Close()

	log.Info().Str("sweep", string(kind)).Int("pixels", len(m)).Int("fps", cfg.Sweep.FPS).Msg("sweep starting")
	return sweep.Run(ctx, r, drv, cfg.Sweep.FPS)
}
