package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the anchor directory.
const DefaultFileName = "config.yaml"

// KeyDataFile names the setting holding the dataset path.
const KeyDataFile = "data_file"

// ErrMissingKey is returned when a requested setting is absent or empty.
var ErrMissingKey = errors.New("config key not set")

// Provider supplies configuration values by key.
type Provider interface {
	ReadConfigSetting(key string) (string, error)
}

// Settings is the typed view of the configuration file.
type Settings struct {
	DataFile string `mapstructure:"data_file" yaml:"data_file" validate:"required"`
}

// Source is a Provider backed by a YAML file with DPP_-prefixed env overrides.
type Source struct {
	path string
	v    *viper.Viper
}

// Open reads cfgFile. Unlike an optional user config, the file must exist:
// it is the only place the dataset location comes from.
func Open(cfgFile string) (*Source, error) {
	if strings.TrimSpace(cfgFile) == "" {
		return nil, errors.New("config file path is empty")
	}
	v := viper.New()
	v.SetEnvPrefix("DPP")
	v.AutomaticEnv()
	_ = v.BindEnv(KeyDataFile)
	v.SetConfigFile(cfgFile)
	if filepath.Ext(cfgFile) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return &Source{path: cfgFile, v: v}, nil
}

// Path returns the file the source was read from.
func (s *Source) Path() string { return s.path }

// ReadConfigSetting returns the string value stored under key. Known settings
// go through Settings so they are validated.
func (s *Source) ReadConfigSetting(key string) (string, error) {
	if key == KeyDataFile {
		c, err := s.Settings()
		if err != nil {
			return "", err
		}
		return c.DataFile, nil
	}
	if !s.v.IsSet(key) {
		return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	val := strings.TrimSpace(s.v.GetString(key))
	if val == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return val, nil
}

// Settings unmarshals and validates the known settings.
func (s *Source) Settings() (*Settings, error) {
	var c Settings
	if err := s.v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.DataFile = strings.TrimSpace(c.DataFile)
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields, reporting missing ones as ErrMissingKey.
func Validate(c *Settings) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		names := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			if fe.Tag() == "required" && fe.Field() == "DataFile" {
				names = append(names, KeyDataFile)
				continue
			}
			names = append(names, fe.Field())
		}
		return fmt.Errorf("invalid config (%s): %w", strings.Join(names, ", "), ErrMissingKey)
	}
	return fmt.Errorf("validate config: %w", err)
}

// Save validates the settings and writes them to path as YAML, creating the
// parent directory.
func Save(c *Settings, path string) error {
	if err := Validate(c); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Static is an in-memory Provider.
type Static map[string]string

// ReadConfigSetting implements Provider.
func (s Static) ReadConfigSetting(key string) (string, error) {
	if key == KeyDataFile {
		c := Settings{DataFile: strings.TrimSpace(s[key])}
		if err := Validate(&c); err != nil {
			return "", err
		}
		return c.DataFile, nil
	}
	v, ok := s[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return strings.TrimSpace(v), nil
}
