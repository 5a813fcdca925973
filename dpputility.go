// Package dpputility prepares the diamond price dataset for numeric analysis:
// it loads the configured CSV, drops rows with degenerate dimensions,
// ordinal-encodes cut, color and clarity, and moves price to the last column.
package dpputility

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/dpputility/internal/analysis"
	"github.com/KaramelBytes/dpputility/internal/config"
	"github.com/KaramelBytes/dpputility/internal/dataset"
	"github.com/KaramelBytes/dpputility/internal/utils"
)

// Table is the prepared dataset.
type Table = dataset.Table

// Report is a per-column profile of a prepared table.
type (
	Report         = analysis.Report
	ColumnSummary  = analysis.ColumnSummary
	SummaryOptions = analysis.Options
)

// ConfigProvider supplies the data_file setting.
type ConfigProvider = config.Provider

// Errors returned by GetDataFrame.
type (
	ConfigurationError = dataset.ConfigurationError
	FileAccessError    = dataset.FileAccessError
	SchemaError        = dataset.SchemaError
	EncodingError      = dataset.EncodingError
)

type options struct {
	configFile string
	provider   ConfigProvider
	anchor     string
	logger     *slog.Logger
	strict     bool
}

// Option customizes GetDataFrame.
type Option func(*options)

// WithConfigFile reads data_file from the given YAML file instead of
// <anchor>/config.yaml.
func WithConfigFile(path string) Option { return func(o *options) { o.configFile = path } }

// WithProvider supplies settings directly; the config file is not read.
func WithProvider(p ConfigProvider) Option { return func(o *options) { o.provider = p } }

// WithAnchor sets the directory a relative data_file is resolved against.
func WithAnchor(dir string) Option { return func(o *options) { o.anchor = dir } }

// WithLogger routes load diagnostics to l.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithStrictEncoding fails on categories outside the known vocabularies.
func WithStrictEncoding() Option { return func(o *options) { o.strict = true } }

// GetDataFrame loads and prepares the dataset. With useVolume the width,
// height and length columns are replaced by a single volume column.
//
// Without WithAnchor, the anchor is the nearest directory at or above the
// working directory holding config.yaml, or the working directory itself.
func GetDataFrame(useVolume bool, opts ...Option) (*Table, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.anchor == "" {
		anchor, err := defaultAnchor()
		if err != nil {
			return nil, &ConfigurationError{Err: err}
		}
		o.anchor = anchor
	}
	if o.provider == nil {
		cfgFile := o.configFile
		if cfgFile == "" {
			cfgFile = filepath.Join(o.anchor, config.DefaultFileName)
		}
		src, err := config.Open(cfgFile)
		if err != nil {
			return nil, &ConfigurationError{Err: err}
		}
		o.provider = src
	}

	l := dataset.NewLoader(o.provider, o.anchor)
	l.Logger = o.logger
	l.StrictEncoding = o.strict
	return l.Load(useVolume)
}

// DefaultSummaryOptions returns the profile settings used when none are given.
func DefaultSummaryOptions() SummaryOptions { return analysis.DefaultOptions() }

// Summarize profiles t: kind, missing count and stats per column, plus the
// first rows and any load warnings. Render it with Report.Markdown.
func Summarize(t *Table, opt SummaryOptions) *Report {
	return analysis.Summarize(t, opt)
}

// SaveConfig writes a config file pointing at dataFile, which is resolved
// against the anchor on load. An empty dataFile is rejected.
func SaveConfig(path, dataFile string) error {
	if err := config.Save(&config.Settings{DataFile: dataFile}, path); err != nil {
		return &ConfigurationError{Key: config.KeyDataFile, Err: err}
	}
	return nil
}

func defaultAnchor() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	anchor, err := utils.FindAnchor(wd, config.DefaultFileName)
	if errors.Is(err, utils.ErrAnchorNotFound) {
		return wd, nil
	}
	return anchor, err
}
