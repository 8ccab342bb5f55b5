package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jcorbin/goexpand/internal/runeio"
)

// Config is the YAML configuration file format, every field is optional.
type Config struct {
	Uniques          *string           `yaml:"uniques"`
	Separators       *string           `yaml:"separators"`
	PrimarySeparator *string           `yaml:"primary_separator"`
	Prefix           *string           `yaml:"prefix"`
	FilePath         *string           `yaml:"file_path"`
	ContextLimit     int               `yaml:"context_limit"`
	Vars             map[string]string `yaml:"vars"`
}

// LoadConfig reads a Config from the named YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML configuration, rejecting unknown keys.
func ParseConfig(data []byte) (cfg Config, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if cfg.ContextLimit < 0 {
		return Config{}, fmt.Errorf("invalid context_limit %v", cfg.ContextLimit)
	}
	return cfg, nil
}

// Options returns the VM options equivalent to the configuration.
func (cfg Config) Options() []VMOption {
	var opts []VMOption
	if cfg.Uniques != nil {
		opts = append(opts, WithUniques(*cfg.Uniques))
	}
	if cfg.Separators != nil {
		opts = append(opts, WithSeparators(*cfg.Separators))
	}
	if cfg.PrimarySeparator != nil {
		opts = append(opts, WithPrimarySeparator(*cfg.PrimarySeparator))
	}
	if cfg.Prefix != nil {
		opts = append(opts, WithPrefix(*cfg.Prefix))
	}
	if cfg.FilePath != nil {
		opts = append(opts, WithFilePath(*cfg.FilePath))
	}
	if cfg.ContextLimit > 0 {
		opts = append(opts, WithContextLimit(cfg.ContextLimit))
	}
	names := make([]string, 0, len(cfg.Vars))
	for name := range cfg.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, WithVar(name, cfg.Vars[name]))
	}
	return opts
}

// runeSetFlag is a flag.Value that parses a list of rune literals, like
// "<SP> <HT> '+'", recording whether it was set at all.
type runeSetFlag struct {
	set   bool
	value string
}

func (rs *runeSetFlag) String() string {
	if rs == nil || !rs.set {
		return ""
	}
	return runeio.FormatSet(rs.value)
}

func (rs *runeSetFlag) Set(list string) error {
	rs.set = true
	rs.value = runeio.ParseSet(list)
	return nil
}
