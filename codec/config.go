package codec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the serialization settings of a Mapper.
type Config struct {
	SkipNulls         bool   `yaml:"skip_nulls"`
	SortProperties    bool   `yaml:"sort_properties"`
	IgnoreUnknown     bool   `yaml:"ignore_unknown"`
	EmptyArrayAsNull  bool   `yaml:"empty_array_as_null"`
	AllowControlChars bool   `yaml:"allow_control_chars"`
	Indent            string `yaml:"indent"`
	XMLRoot           string `yaml:"xml_root"`
}

// DefaultConfig returns the settings used by the package level helpers.
func DefaultConfig() Config {
	return Config{
		SkipNulls:         true,
		SortProperties:    true,
		IgnoreUnknown:     true,
		EmptyArrayAsNull:  true,
		AllowControlChars: true,
	}
}

// ParseConfig reads YAML settings over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse codec config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads YAML settings from path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read codec config: %w", err)
	}
	return ParseConfig(data)
}
