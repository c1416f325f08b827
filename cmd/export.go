package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IrinaBBB/TaskBoard/internal/export"
	"github.com/IrinaBBB/TaskBoard/internal/logging"
)

func newExportCmd(f *flags) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write a task report from the tasks file",
		Example: "  taskboard export --format csv --out tasks.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}

			svc, err := newService(cfg, logger, f.inMemory)
			if err != nil {
				return err
			}

			data, _, err := export.NewExporter(svc).Export(format)
			if err != nil {
				return err
			}

			// "-" writes to stdout.
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = "tasks." + export.Extension(format)
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			logger.Info("report written", "path", out, "format", format, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "report format: json, csv or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default tasks.<format>)")
	return cmd
}
