package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// fileConfig mirrors the TOML layout. Pointers tell "unset" from zero values.
type fileConfig struct {
	Server struct {
		Addr              *string `toml:"addr"`
		APIPrefix         *string `toml:"api_prefix"`
		DocsPath          *string `toml:"docs_path"`
		CORSOrigin        *string `toml:"cors_origin"`
		ServeClient       *bool   `toml:"serve_client"`
		ShutdownTimeout   *string `toml:"shutdown_timeout"`
		ReadHeaderTimeout *string `toml:"read_header_timeout"`
	} `toml:"server"`
	Store struct {
		TasksFile *string `toml:"tasks_file"`
	} `toml:"store"`
	Log struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
	} `toml:"log"`
}

type LoadOptions struct {
	// ConfigFile is an explicit TOML path; it must exist when set.
	ConfigFile string
	// EnvFile is an explicit dotenv path; it must exist when set.
	EnvFile string
	// SkipDiscovery disables looking for taskboard.toml and .env in the
	// working directory.
	SkipDiscovery bool
}

// Load builds the config from defaults, files and the environment. Flags
// are applied by the caller on top of the result; Validate runs last.
func Load(opts LoadOptions) (Config, error) {
	cfg := New()

	configFile := opts.ConfigFile
	if configFile == "" && !opts.SkipDiscovery && fileExists(DefaultConfigFile) {
		configFile = DefaultConfigFile
	}
	if configFile != "" {
		if err := loadFile(&cfg, configFile); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" && !opts.SkipDiscovery && fileExists(DefaultEnvFile) {
		envFile = DefaultEnvFile
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	if err := loadFromEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}

	setString(&cfg.HTTPAddr, fc.Server.Addr)
	setString(&cfg.APIPrefix, fc.Server.APIPrefix)
	setString(&cfg.DocsPath, fc.Server.DocsPath)
	setString(&cfg.CORSOrigin, fc.Server.CORSOrigin)
	if fc.Server.ServeClient != nil {
		cfg.ServeClient = *fc.Server.ServeClient
	}
	if err := setDuration(&cfg.ShutdownTimeout, fc.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	if err := setDuration(&cfg.ReadHeaderTimeout, fc.Server.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("server.read_header_timeout: %w", err)
	}
	setString(&cfg.TasksFile, fc.Store.TasksFile)
	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)

	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTPAddr = ":" + v
	}
	if v := os.Getenv("TASKBOARD_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("TASKBOARD_API_PREFIX"); v != "" {
		cfg.APIPrefix = v
	}
	if v := os.Getenv("TASKBOARD_DOCS_PATH"); v != "" {
		cfg.DocsPath = v
	}
	if v := os.Getenv("TASKBOARD_TASKS_FILE"); v != "" {
		cfg.TasksFile = v
	}
	if v := os.Getenv("TASKBOARD_CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKBOARD_SERVE_CLIENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TASKBOARD_SERVE_CLIENT: %w", err)
		}
		cfg.ServeClient = b
	}
	if v := os.Getenv("TASKBOARD_SHUTDOWN_TIMEOUT"); v != "" {
		if err := setDuration(&cfg.ShutdownTimeout, &v); err != nil {
			return fmt.Errorf("TASKBOARD_SHUTDOWN_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("TASKBOARD_READ_HEADER_TIMEOUT"); v != "" {
		if err := setDuration(&cfg.ReadHeaderTimeout, &v); err != nil {
			return fmt.Errorf("TASKBOARD_READ_HEADER_TIMEOUT: %w", err)
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
