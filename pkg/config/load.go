package config

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depwalk/pkg/errors"
)

// DefaultCSVFile is picked up from the working directory when no
// configuration file is named.
const DefaultCSVFile = "csv_config.csv"

// Load applies the configuration file at path on top of base. The format
// is chosen by extension: ".toml" or ".csv".
func Load(path string, base Config) (Config, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return LoadTOML(path, base)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
		}
		defer f.Close()
		return ReadCSV(f, base)
	default:
		return base, errors.ConfigError("unsupported config format %q (want .toml or .csv)", ext)
	}
}

// LoadTOML decodes the TOML file at path over base. Keys absent from the
// file keep their base values; unknown keys are an error.
func LoadTOML(path string, base Config) (Config, error) {
	cfg := base
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, errors.ConfigError("%s: unknown parameter %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// ReadCSV applies a "parameter,value" CSV document over base. Rows naming
// unknown parameters or carrying unparsable values are an error.
func ReadCSV(r io.Reader, base Config) (Config, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read CSV header")
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	pi, vi := slices.Index(header, "parameter"), slices.Index(header, "value")
	if pi < 0 || vi < 0 {
		return base, errors.ConfigError("CSV header must contain parameter and value columns, got %v", header)
	}

	cfg := base
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read CSV line %d", line)
		}
		if len(row) <= pi {
			return base, errors.ConfigError("CSV line %d: missing parameter column", line)
		}
		value := ""
		if vi < len(row) {
			value = row[vi]
		}
		if err := cfg.Set(row[pi], value); err != nil {
			return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "CSV line %d", line)
		}
	}
	return cfg, nil
}

// Discover returns the path of DefaultCSVFile in dir if it exists, or "".
func Discover(dir string) string {
	path := filepath.Join(dir, DefaultCSVFile)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}
