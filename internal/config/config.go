// Package config loads the anagram-cli settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"code.anagramas.org/golang/internal/transport"
	"code.anagramas.org/golang/internal/utils"
)

// errorFlag is a private error type that allows declaring error constants.
type errorFlag string

const (
	Error   = errorFlag("config: error")
	noError = errorFlag("")
)

// Error implements the error interface.
func (self errorFlag) Error() string {
	return string(self)
}

func (self errorFlag) Unwrap() error {
	if Error == self || noError == self {
		return nil
	}
	return Error
}

// Config holds the anagram-cli settings.
type Config struct {
	ApiUrl          string        `env:"ANAGRAMAS_API_URL" envDefault:"http://localhost:8080"`
	SessionDB       string        `env:"ANAGRAMAS_SESSION_DB,expand" envDefault:"${HOME}/.anagramas/session.db"`
	SessionEncoding string        `env:"ANAGRAMAS_SESSION_ENCODING" envDefault:"json"`
	HttpTimeout     time.Duration `env:"ANAGRAMAS_HTTP_TIMEOUT" envDefault:"10s"`
	Lang            string        `env:"ANAGRAMAS_LANG" envDefault:"pt-BR"`
	LogLevel        string        `env:"ANAGRAMAS_LOG_LEVEL" envDefault:"info"`
}

// Check returns an error if the Config is invalid.
func (self Config) Check() error {
	u, err := url.Parse(self.ApiUrl)
	if nil != err {
		return utils.WrapError(err, 0, Error, "invalid ApiUrl %q", self.ApiUrl)
	}
	if ("http" != u.Scheme && "https" != u.Scheme) || "" == u.Host {
		return utils.NewError(0, Error, "ApiUrl %q is not an http(s) url", self.ApiUrl)
	}
	if "" == self.SessionDB {
		return utils.NewError(0, Error, "empty SessionDB")
	}
	if !slices.Contains(transport.ListSerializers(), self.SessionEncoding) {
		return utils.NewError(
			0, Error, "unsupported SessionEncoding %q, valid values are %v",
			self.SessionEncoding, transport.ListSerializers(),
		)
	}
	if self.HttpTimeout <= 0 {
		return utils.NewError(0, Error, "HttpTimeout must be positive")
	}

	return nil
}

// Load loads the dotenvPaths files then parses the process environment into a Config.
// Missing dotenv files are ignored and variables already set are not overridden.
func Load(dotenvPaths ...string) (Config, error) {
	for _, path := range dotenvPaths {
		err := godotenv.Load(path)
		if nil != err && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, utils.WrapError(err, 0, Error, "failed loading %s", path)
		}
	}

	var cfg Config
	err := env.Parse(&cfg)
	if nil != err {
		return cfg, utils.WrapError(err, 0, Error, "failed parsing environment")
	}

	return cfg, cfg.Check()
}

// LoadFrom parses environ into a Config, the process environment is not used.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Environment: environ})
	if nil != err {
		return cfg, utils.WrapError(err, 0, Error, "failed parsing environment")
	}

	return cfg, cfg.Check()
}
