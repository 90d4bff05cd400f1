package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/cache"
	"github.com/yaklabco/gotypstyle/pkg/config"
	"github.com/yaklabco/gotypstyle/pkg/format"
	"github.com/yaklabco/gotypstyle/pkg/server"
)

type serveFlags struct {
	addr  string
	redis string
}

func newServeCommand(global *globalFlags) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP formatting service",
		Long: `Run an HTTP service that formats Typst documents.

Endpoints:
  GET  /healthz   liveness probe
  POST /format    returns the formatted body (422 on syntax errors)
  POST /check     reports whether the body needs formatting

Both POST endpoints accept "width" and "blank_lines" query parameters.
Results are cached in Redis when --redis is set, otherwise in the local
cache when it is enabled in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default \":8080\")")
	cmd.Flags().StringVar(&flags.redis, "redis", "", "Redis address for the result cache")

	return cmd
}

func runServe(cmd *cobra.Command, global *globalFlags, flags *serveFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()
	if global.debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(cmd, global, &config.Config{
		Server: config.ServerConfig{Addr: flags.addr, RedisAddr: flags.redis},
	})
	if err != nil {
		return err
	}

	var resultCache cache.Cache
	if cfg.Server.RedisAddr != "" {
		resultCache, err = cache.NewRedisCache(ctx, cfg.Server.RedisAddr)
	} else {
		resultCache, err = localCache(cfg)
	}
	if err != nil {
		return err
	}
	defer resultCache.Close()

	srv := server.New(server.Options{
		Addr:     cfg.Server.Addr,
		Format:   format.OptionsFromConfig(cfg).Format,
		Cache:    resultCache,
		CacheTTL: cfg.Server.CacheTTL,
		Logger:   logger,
	})

	logger.Debug("starting server",
		logging.FieldAddr, cfg.Server.Addr,
		logging.FieldWidth, cfg.MaxWidth,
		"redis", cfg.Server.RedisAddr != "",
	)
	return srv.ListenAndServe(ctx)
}
