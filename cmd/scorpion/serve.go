package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/scorpion/config"
	"github.com/adamwoolhether/scorpion/service"
	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/server"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var (
		configFile string
		envFiles   []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the resource server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, envFiles...)
			if err != nil {
				return configError(err)
			}

			format, level := cfg.LogFormat, cfg.LogLevel
			if root.logFormat != "" {
				format = root.logFormat
			}
			if root.logLevel != "" {
				level = root.logLevel
			}

			log, err := newLogger(cmd.ErrOrStderr(), format, level)
			if err != nil {
				return err
			}

			svc, err := service.New(cfg, log)
			if err != nil {
				return configError(err)
			}

			opts := []server.Option{
				server.WithHost(cfg.Host),
				server.WithReadTimeout(cfg.ReadTimeout),
				server.WithWriteTimeout(cfg.WriteTimeout),
				server.WithIdleTimeout(cfg.IdleTimeout),
				server.WithShutdownTimeout(cfg.ShutdownTimeout),
				server.WithLogger(log),
				server.WithShutdownFunc(func(ctx context.Context) error {
					return svc.Close()
				}),
			}
			if cfg.TLS() {
				opts = append(opts, server.WithTLS(cfg.TLSCertFile, cfg.TLSKeyFile))
			}

			if err := server.New(svc.Handler, opts...).Run(cmd.Context()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	return cmd
}

// configError lists rejected settings one per line.
func configError(err error) error {
	if !errs.IsFieldErrors(err) {
		return err
	}

	return fmt.Errorf("invalid configuration:\n%s", errs.GetFieldErrors(err).Lines())
}
