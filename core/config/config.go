package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	AppLogName        = "events.log"
)

// Configuration holds the tunable behavior of the shell.
type Configuration struct {
	configFs afero.Fs

	// Prompt is printed before each interactive read.
	Prompt string `json:"prompt" validate:"required"`
	// MaxLineBytes bounds the length of a single input line.
	MaxLineBytes int `json:"max_line_bytes" validate:"gte=64"`
	// MaxArgs bounds the argument vector of a single command.
	MaxArgs int `json:"max_args" validate:"gte=1"`
	// SuppressSignal is a terminating signal number that is never
	// reported. Zero disables the exception.
	SuppressSignal int `json:"suppress_signal" validate:"gte=0"`
	// LogEvents controls whether shell events are appended to the event log.
	LogEvents bool `json:"log_events"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewOsFs()
	}
	return c.configFs
}

// OpenAppLog opens the event log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadAppLog opens the event log for reading.
func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration, used when no config.yaml
// exists on disk.
func Default() *Configuration {
	return defaultConfig()
}
