// Package config defines the batch run configuration and its loading hooks.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers an optional YAML file and the environment on top.
// - Errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/adapters/repository"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
)

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Source selects the document store: firestore, mongo or file.
	Source                   string `koanf:"source"`
	FirestoreProject         string `koanf:"firestore_project"`
	FirestoreCredentialsFile string `koanf:"firestore_credentials_file"`
	MongoURI                 string `koanf:"mongo_uri"`
	MongoDatabase            string `koanf:"mongo_database"`
	// SnapshotDir holds <collection>.json exports when Source is file.
	SnapshotDir string `koanf:"snapshot_dir"`

	// Collections overrides the collection names.
	Collections repository.Collections `koanf:"collections"`

	// FetchTimeoutSeconds bounds each collection read.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// AliasesSource is "embedded", a file path or an http(s) URL.
	AliasesSource string `koanf:"aliases_source"`

	// AliasCacheAddr enables the Redis alias table cache when set.
	AliasCacheAddr       string `koanf:"alias_cache_addr"`
	AliasCachePassword   string `koanf:"alias_cache_password"`
	AliasCacheDB         int    `koanf:"alias_cache_db"`
	AliasCacheTTLSeconds int    `koanf:"alias_cache_ttl_seconds"`

	// Categories replaces the default interest categories when non-empty.
	Categories []cohort.CategoryRule `koanf:"categories"`
	// TopCategories caps the categories listed per cohort.
	TopCategories int `koanf:"top_categories"`

	// MetricsTextfile, when set, receives a Prometheus textfile after a run.
	// Metrics are only recorded when it is set.
	MetricsTextfile  string            `koanf:"metrics_textfile"`
	MetricsNamespace string            `koanf:"metrics_namespace"`
	MetricsLabels    map[string]string `koanf:"metrics_labels"`

	// ReportFormat is the default output: text, json or csv.
	ReportFormat string `koanf:"report_format"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Source:               repository.SourceFirestore,
		SnapshotDir:          "./snapshot",
		Collections:          repository.DefaultCollections(),
		FetchTimeoutSeconds:  30,
		AliasesSource:        "embedded",
		AliasCacheTTLSeconds: 3600,
		TopCategories:        3,
		MetricsNamespace:     "myworkin",
		ReportFormat:         "text",
	}
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Source) {
	case repository.SourceFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("%w: firestore_project must be set for the firestore source", ErrInvalidConfig)
		}
	case repository.SourceMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("%w: mongo_uri and mongo_database must be set for the mongo source", ErrInvalidConfig)
		}
	case repository.SourceFile:
		if c.SnapshotDir == "" {
			return fmt.Errorf("%w: snapshot_dir must be set for the file source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}

	switch strings.ToLower(c.ReportFormat) {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: fetch_timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.AliasCacheTTLSeconds < 0 {
		return fmt.Errorf("%w: alias_cache_ttl_seconds must not be negative", ErrInvalidConfig)
	}
	if c.MetricsTextfile != "" && !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: invalid metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	for _, r := range c.Categories {
		if strings.TrimSpace(r.Category) == "" || len(r.Keywords) == 0 {
			return fmt.Errorf("%w: every category needs a name and keywords", ErrInvalidConfig)
		}
	}
	return nil
}

// FetchTimeout returns the per-collection read timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// AliasCacheTTL returns how long a fetched alias table stays cached.
func (c *Config) AliasCacheTTL() time.Duration {
	return time.Duration(c.AliasCacheTTLSeconds) * time.Second
}

// SourceConfig returns the repository connection settings.
func (c *Config) SourceConfig() repository.SourceConfig {
	return repository.SourceConfig{
		Kind:                     c.Source,
		FirestoreProject:         c.FirestoreProject,
		FirestoreCredentialsFile: c.FirestoreCredentialsFile,
		MongoURI:                 c.MongoURI,
		MongoDatabase:            c.MongoDatabase,
		SnapshotDir:              c.SnapshotDir,
	}
}
