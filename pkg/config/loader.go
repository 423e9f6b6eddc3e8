package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads .env files (the default .env when none is given), parses the
// environment into a Config and validates it.
//
// A missing default .env is fine; explicitly named files must exist.
// Values already present in the environment are never overwritten by files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingEnvFile, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad works like Load but panics on failure.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

// LoadFile reads a YAML file over Default, applies the environment on top
// and validates the result. An AUTHCLIENT_* variable always beats the file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Join(ErrReadingFile, err)
	}

	fromFile := Default()
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	// File values become the environment env parses; real variables win.
	environ := fileEnvironment(fromFile)
	maps.Copy(environ, env.ToMap(os.Environ()))

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileEnvironment renders the non-empty fields of cfg under their env keys.
func fileEnvironment(cfg Config) map[string]string {
	out := make(map[string]string)
	v := reflect.ValueOf(cfg)
	for i := range v.NumField() {
		key, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("env"), ",")
		if key == "" {
			continue
		}
		var val string
		switch f := v.Field(i).Interface().(type) {
		case string:
			val = f
		case bool:
			val = strconv.FormatBool(f)
		case time.Duration:
			val = f.String()
		default:
			val = fmt.Sprint(f)
		}
		if val != "" {
			out[key] = val
		}
	}
	return out
}
