package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumen-go/lumen"
	"github.com/lumen-go/lumen/internal/config"
)

func serveCmd() *cobra.Command {
	var (
		port int
		prod bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Long: `Start the server in development or production mode.

The mode comes from LUMEN_ENV ("production" enables production mode);
--prod forces it. Settings are read from lumen.json when present, with
flags taking precedence.

Examples:
  lumen serve
  lumen serve --port=8080
  lumen serve --prod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port, prod)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from lumen.json)")
	cmd.Flags().BoolVar(&prod, "prod", false, "Serve built assets in production mode")

	return cmd
}

func runServe(cmd *cobra.Command, port int, prod bool) error {
	appCfg := lumen.FromEnv()
	if prod {
		appCfg.Mode = lumen.ModeProduction
	}

	url := "http://localhost" + appCfg.Addr

	// lumen.json is optional; a bare directory with public/index.html works
	// with the defaults.
	if fileCfg, err := config.LoadFromWorkingDir(); err == nil {
		if port > 0 {
			fileCfg.Port = port
		}
		if err := fileCfg.Validate(); err != nil {
			return err
		}
		appCfg.Addr = fileCfg.Addr()
		appCfg.TemplateFile = fileCfg.TemplatePath()
		appCfg.StaticDir = fileCfg.PublicPath()
		appCfg.DistDir = fileCfg.DistPath()
		if fileCfg.Static.Prefix != "" {
			appCfg.StaticPrefix = fileCfg.Static.Prefix
		}
		appCfg.WatchPaths = fileCfg.WatchPaths()
		appCfg.WatchIgnore = fileCfg.Dev.Ignore
		appCfg.HotReload = fileCfg.Dev.HotReload
		url = fileCfg.DevURL()
	} else if port > 0 {
		appCfg.Addr = fmt.Sprintf(":%d", port)
		url = "http://localhost" + appCfg.Addr
	}

	app, err := lumen.New(appCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	info("mode: %s", app.Mode())
	info("listening on %s", url)
	return app.Run(ctx)
}
