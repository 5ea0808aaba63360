package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxConfigFileSize caps config files at 1MB. Real configs are a few
// hundred bytes; anything larger is a mistake.
const maxConfigFileSize = 1 * 1024 * 1024

// NameAliases is the ordered list of top-level keys accepted for the robot
// name field, first match wins. Older configs exported by the editor used
// "robotName"; ROS package manifests use "package".
var NameAliases = []string{"name", "robotName", "package"}

// Load reads a robot configuration from a JSON or YAML file, selected by
// extension. Fields omitted from the file keep their zero values; the
// result is validated before it is returned.
func Load(path string) (Config, error) {
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json":
		return Parse(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Config{}, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}
}

// Parse decodes and validates a JSON configuration document.
func Parse(data []byte) (Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode unmarshals a JSON configuration and resolves the robot name
// through NameAliases, without validating field domains. Callers that
// want a usable config should prefer Parse; Decode exists for the
// validate-only path, which reports bad fields as issues rather than
// refusing to decode.
func Decode(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	name, err := resolveNameJSON(raw)
	if err != nil {
		return Config{}, err
	}
	cfg.Name = name
	return cfg, nil
}

// ParseYAML decodes and validates a YAML configuration document.
func ParseYAML(data []byte) (Config, error) {
	cfg, err := DecodeYAML(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeYAML is Decode for YAML documents.
func DecodeYAML(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	name, err := resolveNameYAML(raw)
	if err != nil {
		return Config{}, err
	}
	cfg.Name = name
	return cfg, nil
}

// resolveNameJSON walks NameAliases over the document's top-level keys and
// returns the first non-empty string match.
func resolveNameJSON(raw map[string]json.RawMessage) (string, error) {
	for _, alias := range NameAliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return "", &ConfigError{Field: alias, Reason: "must be a string"}
		}
		if name != "" {
			return name, nil
		}
	}
	return "", &ConfigError{
		Field:  "name",
		Reason: fmt.Sprintf("missing robot name (accepted keys: %s)", strings.Join(NameAliases, ", ")),
	}
}

func resolveNameYAML(raw map[string]interface{}) (string, error) {
	for _, alias := range NameAliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}
		name, ok := v.(string)
		if !ok {
			return "", &ConfigError{Field: alias, Reason: "must be a string"}
		}
		if name != "" {
			return name, nil
		}
	}
	return "", &ConfigError{
		Field:  "name",
		Reason: fmt.Sprintf("missing robot name (accepted keys: %s)", strings.Join(NameAliases, ", ")),
	}
}

// Save writes the configuration to a JSON file with stable indentation so
// saved configs diff cleanly.
func Save(cfg Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
