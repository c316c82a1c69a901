package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/kernel/sdfx"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/render"
)

// ============================================================
// Eventer CLI
// ============================================================

func main() {
	log, err := logger.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventer: logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		log.Error("eventer failed", "error", err)
		fmt.Fprintf(os.Stderr, "eventer: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command-line flags.
type options struct {
	config string
	script string
	out    string
	format string
	serve  string
	cells  int
	width  int
	height int
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("eventer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.config, "config", "", "scene configuration file (.yaml, .yml or .json)")
	fs.StringVar(&o.script, "script", "", "stage script file; wins over -config")
	fs.StringVar(&o.out, "out", "", "output file (default stdout)")
	fs.StringVar(&o.format, "format", "json", "output: json, flat, scene, png, svg, bom or csv")
	fs.StringVar(&o.serve, "serve", "", "serve the HTTP API on this address instead")
	fs.IntVar(&o.cells, "cells", sdfx.DefaultMeshCells, "marching cubes resolution for scene meshes")
	fs.IntVar(&o.width, "width", 0, "plan image width in pixels")
	fs.IntVar(&o.height, "height", 0, "plan image height in pixels")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return o, nil
}

// request reads the script or configuration named by o.
func (o options) request() (Request, error) {
	var req Request
	if o.script != "" {
		b, err := os.ReadFile(o.script)
		if err != nil {
			return req, fmt.Errorf("read script: %w", err)
		}
		req.Script = string(b)
		return req, nil
	}
	if o.config != "" {
		cfg, err := config.Load(o.config)
		if err != nil {
			return req, err
		}
		req.Config = &cfg
		return req, nil
	}
	cfg := config.Default()
	cfg.ApplyEnv()
	req.Config = &cfg
	return req, nil
}

func run(args []string, stdout io.Writer, log *logger.Logger) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	app := NewApp(log, sdfx.WithMeshCells(o.cells))

	if o.serve != "" {
		return serve(app, log, o.serve)
	}

	req, err := o.request()
	if err != nil {
		return err
	}

	w := stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := write(w, app, req, o); err != nil {
		return err
	}
	log.Info("scene written", "format", o.format, "out", o.out)
	return nil
}

// write renders req to w in o.format.
func write(w io.Writer, app *App, req Request, o options) error {
	var evalErrs []EvalErrorData
	collect := func(errs []EvalErrorData) {
		evalErrs = append(evalErrs, errs...)
	}

	var err error
	switch o.format {
	case "json", "flat":
		errs, e := app.Export(w, req, o.format == "flat")
		collect(toErrorData(errs))
		err = e
	case "scene":
		res := app.Evaluate(context.Background(), req, true)
		collect(res.Errors)
		if len(res.Errors) == 0 {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			err = enc.Encode(res)
		}
	case "png", "svg":
		opts := render.Options{Width: o.width, Height: o.height}
		errs, e := app.Plan(w, req, opts, o.format == "svg")
		collect(toErrorData(errs))
		err = e
	case "bom", "csv":
		b, errs, e := app.BOM(req)
		collect(toErrorData(errs))
		err = e
		if err == nil && len(errs) == 0 {
			if o.format == "csv" {
				err = b.WriteCSV(w)
			} else {
				err = b.WriteText(w)
			}
		}
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		e := evalErrs[0]
		if e.Line > 0 {
			return fmt.Errorf("script: line %d: %s", e.Line, e.Message)
		}
		return fmt.Errorf("script: %s", e.Message)
	}
	return nil
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(app *App, log *logger.Logger, addr string) error {
	srv := NewServer(app, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(addr) }()

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
		if err := srv.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
