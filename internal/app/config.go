package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = ".optionalize.yaml"

// FileConfig mirrors the keys accepted in a config file. Every key is
// optional; flags given on the command line win over the file.
type FileConfig struct {
	Wrapper         string   `yaml:"wrapper"`
	OptionalPackage string   `yaml:"optional_package"`
	OptionalType    string   `yaml:"optional_type"`
	Types           []string `yaml:"types"`
	All             bool     `yaml:"all"`
	Parallel        int      `yaml:"parallel"`
	NoColor         bool     `yaml:"no_color"`
	JSON            bool     `yaml:"json"`
	Pretty          bool     `yaml:"pretty"`
	Timestamp       bool     `yaml:"timestamp"`
	ShowPosition    bool     `yaml:"show_position"`
	CSV             string   `yaml:"csv"`
	DB              string   `yaml:"db"`
}

// LoadConfigFile reads the config file at path. An empty path means
// DefaultConfigFile, which may be missing; an explicit path must exist.
func LoadConfigFile(path string) (FileConfig, error) {
	var cfg FileConfig

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// apply copies the file values into f for every flag the user did not set.
func (c FileConfig) apply(f *flags, changed func(name string) bool) {
	setString := func(name string, dst *string, v string) {
		if v != "" && !changed(name) {
			*dst = v
		}
	}

	setBool := func(name string, dst *bool, v bool) {
		if v && !changed(name) {
			*dst = v
		}
	}

	setString("wrapper", &f.wrapper, c.Wrapper)
	setString("optional-package", &f.optionalPackage, c.OptionalPackage)
	setString("optional-type", &f.optionalType, c.OptionalType)
	setString("csv", &f.saveToCSV, c.CSV)
	setString("db", &f.saveToDB, c.DB)

	setBool("all", &f.all, c.All)
	setBool("no-color", &f.noColor, c.NoColor)
	setBool("json", &f.outputJSON, c.JSON)
	setBool("pretty", &f.prettyJSON, c.Pretty)
	setBool("timestamp", &f.showTimestamp, c.Timestamp)
	setBool("show-position", &f.showPosition, c.ShowPosition)

	if len(c.Types) > 0 && !changed("type") {
		f.types = c.Types
	}

	if c.Parallel != 0 && !changed("parallel") {
		f.parallel = c.Parallel
	}
}
