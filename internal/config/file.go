package config

import (
	"fmt"
	"os"

	env "github.com/netflix/go-env"
	"gopkg.in/yaml.v3"
)

// EnvironmentSection holds the per-environment values of a config file.
type EnvironmentSection struct {
	Key  string `yaml:"key"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// File is the YAML config file layout, one section per environment:
//
//	production:
//	  key: s3cr3t
//	  port: 80
type File struct {
	Development EnvironmentSection `yaml:"development"`
	Staging     EnvironmentSection `yaml:"staging"`
	Production  EnvironmentSection `yaml:"production"`
}

// ReadFile parses a YAML config file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Section returns the section matching the environment.
func (f *File) Section(e Environment) EnvironmentSection {
	switch e {
	case Staging:
		return f.Staging
	case Production:
		return f.Production
	default:
		return f.Development
	}
}

// applyFile fills fields from the file section for the active environment.
// Variables present in the process environment always win.
func applyFile(config *Config, path string, es env.EnvSet) error {
	f, err := ReadFile(path)
	if err != nil {
		return err
	}
	section := f.Section(config.Environment)

	if _, ok := es["HEXOCAT_KEY"]; !ok && section.Key != "" {
		config.Key = section.Key
	}
	if _, ok := es["HEXOCAT_HOST"]; !ok && section.Host != "" {
		config.Host = section.Host
	}
	if _, ok := es["HEXOCAT_PORT"]; !ok && section.Port != 0 {
		config.Port = section.Port
	}
	return nil
}
