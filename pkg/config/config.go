package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/httputil"
	"github.com/matzehuels/depwalk/pkg/registry"
)

const (
	DefaultOutputFile = "dependency_graph.png"
	DefaultMaxDepth   = 10
	DefaultWorkers    = 20
	DefaultTimeout    = 10 * time.Second
	DefaultRetries    = 3
	DefaultRepoURL    = "https://registry.npmjs.org"
)

// Config is the full parameter set of one run. It is built once, validated,
// and then only read.
type Config struct {
	PackageName     string        `toml:"package_name"`
	Version         string        `toml:"version"`
	RepoURL         string        `toml:"repo_url"`
	TestMode        bool          `toml:"test_mode"`
	OutputFile      string        `toml:"output_file"`
	MaxDepth        int           `toml:"max_depth"`
	FilterSubstring string        `toml:"filter_substring"`
	Workers         int           `toml:"workers"`
	Timeout         time.Duration `toml:"timeout"`
	Retries         int           `toml:"retries"`
}

// Defaults returns the configuration used when nothing else is given.
// PackageName is intentionally empty: it has no sensible default.
func Defaults() Config {
	return Config{
		RepoURL:    DefaultRepoURL,
		OutputFile: DefaultOutputFile,
		MaxDepth:   DefaultMaxDepth,
		Workers:    DefaultWorkers,
		Timeout:    DefaultTimeout,
		Retries:    DefaultRetries,
	}
}

// Validate checks the preconditions a run depends on and returns a
// ConfigError describing the first violation.
func (c Config) Validate() error {
	if strings.TrimSpace(c.PackageName) == "" {
		return errors.ConfigError("package name cannot be empty")
	}
	if err := errors.ValidatePackageName(c.PackageName); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "package name %q", c.PackageName)
	}
	if strings.TrimSpace(c.RepoURL) == "" {
		return errors.ConfigError("repository URL cannot be empty")
	}
	if !c.TestMode {
		if err := errors.ValidateURL(c.RepoURL); err != nil {
			return err
		}
	}
	if err := errors.ValidateOutputFile(c.OutputFile); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return errors.ConfigError("max depth cannot be negative (got %d)", c.MaxDepth)
	}
	if c.Workers <= 0 {
		return errors.ConfigError("workers must be positive (got %d)", c.Workers)
	}
	if c.Timeout < 0 {
		return errors.ConfigError("timeout cannot be negative (got %s)", c.Timeout)
	}
	if c.Retries < 0 {
		return errors.ConfigError("retries cannot be negative (got %d)", c.Retries)
	}
	return nil
}

// Root returns the reference the run starts from.
func (c Config) Root() registry.PackageRef {
	return registry.PackageRef{Name: strings.TrimSpace(c.PackageName), Version: c.Version}
}

// Source builds the metadata source the configuration describes: a fixture
// document in test mode, otherwise a registry over HTTP.
func (c Config) Source() registry.Source {
	if c.TestMode {
		return registry.NewFixtureSource(c.RepoURL)
	}
	return registry.NewHTTPSource(c.RepoURL,
		registry.WithTimeout(c.Timeout),
		registry.WithRetry(httputil.Policy{Attempts: c.Retries + 1, Delay: httputil.DefaultPolicy.Delay}),
	)
}

// Param is one named configuration value, formatted for display.
type Param struct {
	Name  string
	Value string
}

// Params lists the effective parameters in a stable order.
func (c Config) Params() []Param {
	return []Param{
		{"package_name", c.PackageName},
		{"version", orDefault(c.Version, registry.LatestTag)},
		{"repo_url", c.RepoURL},
		{"test_mode", strconv.FormatBool(c.TestMode)},
		{"output_file", c.OutputFile},
		{"max_depth", strconv.Itoa(c.MaxDepth)},
		{"filter_substring", c.FilterSubstring},
		{"workers", strconv.Itoa(c.Workers)},
		{"timeout", c.Timeout.String()},
		{"retries", strconv.Itoa(c.Retries)},
	}
}

// Set assigns one parameter by its file name (e.g. "max_depth").
// Values are parsed from their textual form and trimmed, except
// filter_substring, which is matched verbatim.
func (c *Config) Set(name, value string) error {
	raw := value
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(name) {
	case "package_name":
		c.PackageName = value
	case "version":
		c.Version = value
	case "repo_url":
		c.RepoURL = value
	case "test_mode":
		b, err := parseBool(value)
		if err != nil {
			return errors.ConfigError("test_mode: %v", err)
		}
		c.TestMode = b
	case "output_file":
		c.OutputFile = value
	case "max_depth":
		return setInt(&c.MaxDepth, name, value)
	case "filter_substring":
		c.FilterSubstring = raw
	case "workers":
		return setInt(&c.Workers, name, value)
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.ConfigError("timeout: %v", err)
		}
		c.Timeout = d
	case "retries":
		return setInt(&c.Retries, name, value)
	default:
		return errors.ConfigError("unknown parameter %q", name)
	}
	return nil
}

func setInt(dst *int, name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return errors.ConfigError("%s: %q is not an integer", name, value)
	}
	*dst = n
	return nil
}

// parseBool accepts the spellings strconv.ParseBool does, plus yes/no.
// An empty value is false.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "no", "n":
		return false, nil
	case "yes", "y":
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", s)
	}
	return b, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
