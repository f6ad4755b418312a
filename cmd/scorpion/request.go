package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/adamwoolhether/scorpion"
	"github.com/adamwoolhether/scorpion/client"
	"github.com/adamwoolhether/scorpion/service"
)

type requestFlags struct {
	user        string
	password    string
	timeout     time.Duration
	userAgent   string
	contentType string
	data        string
	verbose     bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "username for Basic auth")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password for Basic auth")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "request timeout, 0 for none")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "scorpion-cli", "User-Agent header")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print the status line to stderr")
}

func (f *requestFlags) client(cmd *cobra.Command, root *rootFlags) (*client.Client, error) {
	log, err := newLogger(cmd.ErrOrStderr(), root.logFormat, root.logLevel)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithLogger(log),
		client.WithUserAgent(f.userAgent),
		client.WithTracer(otel.Tracer(service.TracerName)),
	}
	if f.timeout > 0 {
		opts = append(opts, client.WithTimeout(f.timeout))
	}
	if cmd.Flags().Changed("user") || cmd.Flags().Changed("password") {
		opts = append(opts, client.WithBasicAuth(f.user, f.password))
	}
	if f.contentType != "" {
		opts = append(opts, client.WithContentType(f.contentType))
	}

	return scorpion.NewClient(opts...)
}

// report writes the body to stdout and turns non-success statuses into
// errors so the process exits non-zero.
func (f *requestFlags) report(cmd *cobra.Command, r *client.Result) error {
	status, body := r.Wait()
	if err := r.Err(); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if f.verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), status)
	}
	fmt.Fprint(cmd.OutOrStdout(), body)

	return client.CheckStatus(status, body)
}

func newGetCmd(root *rootFlags) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Fetch a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client(cmd, root)
			if err != nil {
				return err
			}

			r, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return flags.report(cmd, r)
		},
	}

	flags.register(cmd)

	return cmd
}

func newPostCmd(root *rootFlags) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Write a resource; the body comes from --data or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := flags.data
			if !cmd.Flags().Changed("data") {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				data = string(raw)
			}

			c, err := flags.client(cmd, root)
			if err != nil {
				return err
			}

			r, err := c.Post(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}

			return flags.report(cmd, r)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.data, "data", "d", "", "request body")
	cmd.Flags().StringVar(&flags.contentType, "content-type", client.DefaultContentType, "Content-Type of the body")

	return cmd
}
