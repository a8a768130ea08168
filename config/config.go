// Package config loads and merges the sandboxd configuration.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP server and admission behavior.
type ServerConfig struct {
	Port                  int `yaml:"port"`
	Workers               int `yaml:"workers"`
	MaxConcurrentRequests int `yaml:"max_concurrent_requests"`
	MaxQueueSize          int `yaml:"max_queue_size"`
}

// ResourceLimitConfig holds the raw, not-yet-floored resource limit values
// as read from configuration. Flooring happens in limits.Resolve.
type ResourceLimitConfig struct {
	CPUTimeLimit    int `yaml:"cpu_time_limit"`
	MemoryLimitMB   int `yaml:"memory_limit_mb"`
	FileSizeLimitKB int `yaml:"file_size_limit_kb"`
	Timeout         int `yaml:"timeout"`
}

// RuntimeConfig describes one configured execution backend.
type RuntimeConfig struct {
	Command         string   `yaml:"command"`
	Enabled         bool     `yaml:"enabled"`
	AllowedPackages []string `yaml:"allowed_packages"`
}

// Config is the fully merged sandboxd configuration.
type Config struct {
	Server         ServerConfig             `yaml:"server"`
	Runtimes       map[string]RuntimeConfig `yaml:"runtimes"`
	ResourceLimits ResourceLimitConfig      `yaml:"resource_limits"`
}

// Default returns the compiled-in default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:                  8000,
			Workers:               4,
			MaxConcurrentRequests: 10,
			MaxQueueSize:          20,
		},
		Runtimes: map[string]RuntimeConfig{
			"python3": {
				Command:         "/usr/bin/python3",
				Enabled:         true,
				AllowedPackages: []string{"json", "base64", "math", "time", "requests", "re", "ast"},
			},
			"python310": {
				Command:         "/usr/bin/python3",
				Enabled:         true,
				AllowedPackages: []string{"json", "base64", "math", "time", "requests"},
			},
			"nodejs": {
				Command:         "/usr/bin/node",
				Enabled:         true,
				AllowedPackages: []string{"fs", "path", "crypto", "buffer", "util"},
			},
		},
		ResourceLimits: ResourceLimitConfig{
			CPUTimeLimit:    10,
			MemoryLimitMB:   512,
			FileSizeLimitKB: 1024,
			Timeout:         10,
		},
	}
}

// EnvPath is the environment variable naming the config file location.
const EnvPath = "SANDBOX_CONFIG_PATH"

// Load reads the config file named by SANDBOX_CONFIG_PATH (default
// config.yaml), deep-merges it onto Default, and returns the result. A
// missing file yields the defaults silently; any other read or parse error
// is logged as a warning and defaults are returned unchanged. A bad config
// file never prevents startup.
func Load() Config {
	path := os.Getenv(EnvPath)
	if path == "" {
		path = "config.yaml"
	}
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to load config from %v: %v. Using defaults.", path, err)
		}
		return cfg
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		log.Printf("Warning: failed to parse config from %v: %v. Using defaults.", path, err)
		return cfg
	}
	if raw == nil {
		return cfg
	}
	base, err := toStringMap(cfg)
	if err != nil {
		log.Printf("Warning: failed to prepare config defaults: %v. Using defaults.", err)
		return cfg
	}
	merged := mergeMaps(base, raw)
	out, err := fromStringMap(merged)
	if err != nil {
		log.Printf("Warning: failed to apply config overrides from %v: %v. Using defaults.", path, err)
		return cfg
	}
	return out
}

// mergeMaps recursively deep-merges override onto base: nested maps merge
// key-by-key, everything else (scalars, lists) is replaced wholesale.
func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	for key, value := range override {
		if baseVal, ok := base[key]; ok {
			baseMap, baseIsMap := baseVal.(map[string]interface{})
			overrideMap, overrideIsMap := toMap(value)
			if baseIsMap && overrideIsMap {
				base[key] = mergeMaps(baseMap, overrideMap)
				continue
			}
		}
		base[key] = value
	}
	return base
}

// toMap normalizes map[interface{}]interface{} (as produced by yaml.v3 for
// untyped maps in some configurations) to map[string]interface{}.
func toMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toStringMap(cfg Config) (map[string]interface{}, error) {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromStringMap(m map[string]interface{}) (Config, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
