package loam

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loamdb/loam/adapter"
)

// Config is a set of named bindings, usually loaded from a YAML file:
//
//	bindings:
//	  - name: primary
//	    url: loam://app@localhost/app.db
//	    adapter: sqlite
type Config struct {
	Bindings []Binding `yaml:"bindings"`
}

// LoadConfig reads and parses a binding config file. Decoding is strict:
// unknown YAML keys are errors, since they are almost always typos.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks every binding and reports all problems at once rather
// than the first: missing fields, duplicate names, unparseable URLs, and
// adapter names nothing has registered.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Bindings) == 0 {
		errs = append(errs, errors.New("config declares no bindings"))
	}

	seen := make(map[string]bool, len(c.Bindings))
	for i, b := range c.Bindings {
		at := b.Name
		if at == "" {
			at = fmt.Sprintf("bindings[%d]", i)
			errs = append(errs, fmt.Errorf("%s: name is required", at))
		} else if seen[at] {
			errs = append(errs, fmt.Errorf("%s: duplicate binding name", at))
		}
		seen[at] = true

		if b.URL == "" {
			errs = append(errs, fmt.Errorf("%s: url is required", at))
		} else if _, err := ParseURL(b.URL); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", at, err))
		}

		if b.Adapter == "" {
			errs = append(errs, fmt.Errorf("%s: adapter is required", at))
		} else if _, err := adapter.New(b.Adapter); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", at, err))
		}
	}
	return errors.Join(errs...)
}

// Binding returns the binding declared under name and whether one exists.
func (c *Config) Binding(name string) (Binding, bool) {
	for _, b := range c.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}
