package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/IrinaBBB/TaskBoard/internal/config"
	"github.com/IrinaBBB/TaskBoard/internal/export"
	router "github.com/IrinaBBB/TaskBoard/internal/http"
	"github.com/IrinaBBB/TaskBoard/internal/http/docs"
	"github.com/IrinaBBB/TaskBoard/internal/http/handlers"
	"github.com/IrinaBBB/TaskBoard/internal/http/web"
	"github.com/IrinaBBB/TaskBoard/internal/logging"
	"github.com/IrinaBBB/TaskBoard/internal/service"
	"github.com/IrinaBBB/TaskBoard/internal/store/file"
	"github.com/IrinaBBB/TaskBoard/internal/store/memory"
)

type flags struct {
	configFile string
	envFile    string
	addr       string
	tasksFile  string
	corsOrigin string
	logLevel   string
	logFormat  string
	inMemory   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "taskboard",
		Short:        "Task board REST API backed by a JSON file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "TOML config file (default "+config.DefaultConfigFile+" if present)")
	pf.StringVar(&f.envFile, "env-file", "", "dotenv file (default "+config.DefaultEnvFile+" if present)")
	pf.StringVar(&f.addr, "addr", "", "listen address, e.g. :3000")
	pf.StringVar(&f.tasksFile, "tasks-file", "", "path of the JSON tasks file")
	pf.StringVar(&f.corsOrigin, "cors-origin", "", "allowed CORS origin, * for any")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "", "text, json or logfmt")
	pf.BoolVar(&f.inMemory, "in-memory", false, "keep tasks in memory for this run, the tasks file is not touched")

	root.AddCommand(newServeCmd(f), newExportCmd(f))
	return root
}

func newServeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, f)
		},
	}
}

// loadConfig layers the changed flags over config.Load and validates.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: f.configFile, EnvFile: f.envFile})
	if err != nil {
		return config.Config{}, err
	}

	set := cmd.Flags()
	if set.Changed("addr") {
		cfg.HTTPAddr = f.addr
	}
	if set.Changed("tasks-file") {
		cfg.TasksFile = f.tasksFile
	}
	if set.Changed("cors-origin") {
		cfg.CORSOrigin = f.corsOrigin
	}
	if set.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newService(cfg config.Config, logger *log.Logger, inMemory bool) (*service.TaskService, error) {
	var store service.TaskStore = memory.New()
	if !inMemory {
		fileStore, err := file.New(cfg.TasksFile)
		if err != nil {
			return nil, fmt.Errorf("store initiation failed: %w", err)
		}
		store = fileStore
	}

	svc, err := service.New(store, logger)
	if err != nil {
		return nil, fmt.Errorf("service initiation failed: %w", err)
	}
	return svc, nil
}

func runServe(cmd *cobra.Command, f *flags) error {
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

	prefix := cfg.NormalizedPrefix()
	docsPath := strings.TrimRight(cfg.DocsPath, "/")
	apiDocs, err := docs.New(prefix, docsPath)
	if err != nil {
		return err
	}

	opts := router.Options{
		APIPrefix:  prefix,
		CORSOrigin: cfg.CORSOrigin,
		DocsPath:   docsPath,
		Docs:       apiDocs,
		Export:     handlers.NewExport(export.NewExporter(svc)),
		Logger:     logger,
	}
	if cfg.ServeClient {
		client, err := web.New(prefix)
		if err != nil {
			return err
		}
		opts.Client = client
	}

	gin.SetMode(gin.ReleaseMode)
	handler := router.New(handlers.New(svc), opts)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "api", prefix, "tasks_file", cfg.TasksFile, "in_memory", f.inMemory)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	logger.Info("shut down signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("shut down gracefully")
	return nil
}
