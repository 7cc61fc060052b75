// Package config assembles the service configuration from, in order of
// increasing priority: built-in defaults, a JSON or TOML config file,
// environment variables (a .env file is honoured) and command line flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

// Config holds every tunable of the service.
type Config struct {
	Host             string        `env:"HOST" json:"host" toml:"host" validate:"omitempty,hostname|ip"`
	Port             int           `env:"PORT" json:"port" toml:"port" validate:"min=1,max=65535"`
	LogLevel         string        `env:"LOG_LEVEL" json:"log_level" toml:"log_level" validate:"loglevel"`
	StaticDir        string        `env:"STATIC_DIR" json:"static_dir" toml:"static_dir" validate:"required"`
	ViewsDir         string        `env:"VIEWS_DIR" json:"views_dir" toml:"views_dir" validate:"required"`
	ExerciseResponse string        `env:"EXERCISE_RESPONSE" json:"exercise_response" toml:"exercise_response" validate:"oneof=entry user"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout" toml:"shutdown_timeout" validate:"gt=0"`
	ConfigFile       string        `env:"CONFIG" json:"-" toml:"-"`
}

var defaultConfig = Config{
	Host:             "",
	Port:             3000,
	LogLevel:         "info",
	StaticDir:        "public",
	ViewsDir:         "views",
	ExerciseResponse: models.ExerciseResponseEntry,
	ShutdownTimeout:  10 * time.Second,
}

// RunAddr is the address the HTTP server listens on.
func (c *Config) RunAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips the command line, which tests need since
// os.Args belongs to the test binary.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}

	var valuesFromFlags Config
	if !options.disableFlagsParsing {
		valuesFromFlags, err = parseFlags(os.Args[1:])
		if err != nil {
			return nil, err
		}
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}

	configFile := firstNonEmpty(valuesFromFlags.ConfigFile, valuesFromEnv.ConfigFile)
	if configFile != "" {
		valuesFromFile, err := parseFile(configFile)
		if err != nil {
			return nil, err
		}
		applyDefaults(values, valuesFromFile)
	}

	override(values, valuesFromEnv)
	override(values, valuesFromFlags)
	applyDefaults(values, defaultConfig)
	values.ConfigFile = configFile

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}

func parseFlags(args []string) (Config, error) {
	var values Config

	flags := flag.NewFlagSet("exercisetracker", flag.ContinueOnError)
	flags.StringVar(&values.Host, "host", "", "host to listen on")
	flags.IntVar(&values.Port, "p", 0, "port to listen on")
	flags.StringVar(&values.LogLevel, "l", "", "logger level")
	flags.StringVar(&values.StaticDir, "s", "", "directory served under /public")
	flags.StringVar(&values.ViewsDir, "v", "", "directory holding index.html")
	flags.StringVar(&values.ExerciseResponse, "r", "", "exercise creation response: entry or user")
	flags.StringVar(&values.ConfigFile, "c", "", "path to a JSON or TOML config file")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	return values, nil
}

func parseFile(fileName string) (Config, error) {
	var values Config

	data, err := os.ReadFile(fileName)
	if err != nil {
		return Config{}, fmt.Errorf("in internal/config/config.go/parseFile(): error while reading %q: %w", fileName, err)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		err = toml.Unmarshal(data, &values)
	default:
		values, err = decodeJSON(data)
	}
	if err != nil {
		return Config{}, fmt.Errorf("in internal/config/config.go/parseFile(): error while decoding %q: %w", fileName, err)
	}

	return values, nil
}

// jsonDuration accepts either a Go duration string ("5s") or a number of
// nanoseconds, matching what TOML and the environment accept.
type jsonDuration time.Duration

func (d *jsonDuration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return err
		}
		*d = jsonDuration(parsed)
		return nil
	}

	var nanoseconds int64
	if err := json.Unmarshal(data, &nanoseconds); err != nil {
		return err
	}
	*d = jsonDuration(nanoseconds)

	return nil
}

func decodeJSON(data []byte) (Config, error) {
	var file struct {
		Config
		ShutdownTimeout jsonDuration `json:"shutdown_timeout"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return Config{}, err
	}

	values := file.Config
	values.ShutdownTimeout = time.Duration(file.ShutdownTimeout)

	return values, nil
}

// override copies every non-zero field of source into target.
func override(target *Config, source Config) {
	if source.Host != "" {
		target.Host = source.Host
	}
	if source.Port != 0 {
		target.Port = source.Port
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.StaticDir != "" {
		target.StaticDir = source.StaticDir
	}
	if source.ViewsDir != "" {
		target.ViewsDir = source.ViewsDir
	}
	if source.ExerciseResponse != "" {
		target.ExerciseResponse = source.ExerciseResponse
	}
	if source.ShutdownTimeout != 0 {
		target.ShutdownTimeout = source.ShutdownTimeout
	}
}

// applyDefaults fills every zero field of target from defaults.
func applyDefaults(target *Config, defaults Config) {
	withDefaults := defaults
	override(&withDefaults, *target)
	*target = withDefaults
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":  true,
		"info":   true,
		"warn":   true,
		"error":  true,
		"dpanic": true,
		"panic":  true,
		"fatal":  true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}
