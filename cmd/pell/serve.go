package main

import (
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/pell-lang/pell/pkg/service"
)

func serveCmd(cfg *Config) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the kernel over JSON-RPC",
		Long: `Serve exposes normalization, equivalence and definition over
JSON-RPC with line-delimited framing, on stdio by default or on a TCP
address with --listen.`,
		Example: `  # Serve on stdio
  pell serve

  # Serve on a TCP port
  pell serve --listen 127.0.0.1:7227`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.Debug)

			svc := service.New()
			if listen == "" {
				return svc.Run(cmd.Context(), os.Stdin, os.Stdout)
			}

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			return svc.Serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "TCP address to listen on (stdio if empty)")

	return cmd
}
