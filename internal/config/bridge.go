package config

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSymbol     = "Send"
	DefaultLambdaBody = "hello from lambda"
	DefaultConfigFile = "arc.json"
)

var allowedSymbols = map[string]bool{
	"Send":        true,
	"SendRequest": true,
}

// BridgeConfig holds the settings of the host process itself. The
// configuration blob handed to the native library is loaded separately and
// never interpreted here.
type BridgeConfig struct {
	LibraryPath    string `yaml:"library"`
	Symbol         string `yaml:"symbol"`
	ConfigLocation string `yaml:"config"`
	LambdaBody     string `yaml:"lambdaBody"`
	Strict         bool   `yaml:"strict"`
}

// DefaultLibraryPath returns the platform's file name for libsoratun.
func DefaultLibraryPath() string {
	if runtime.GOOS == "darwin" {
		return "libsoratun.dylib"
	}
	return "libsoratun.so"
}

// LoadBridgeConfig builds the bridge settings from defaults, the optional YAML
// file named by SORATUN_SETTINGS_FILE, then environment variables.
func LoadBridgeConfig() (*BridgeConfig, error) {
	cfg := &BridgeConfig{
		LibraryPath: DefaultLibraryPath(),
		Symbol:      DefaultSymbol,
		LambdaBody:  DefaultLambdaBody,
	}

	if settingsFile := os.Getenv("SORATUN_SETTINGS_FILE"); settingsFile != "" {
		if err := cfg.mergeFile(settingsFile); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("SORATUN_LIBRARY"); v != "" {
		cfg.LibraryPath = v
	}
	if v := os.Getenv("SORATUN_SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("SORATUN_CONFIG"); v != "" {
		cfg.ConfigLocation = v
	}
	if v, ok := os.LookupEnv("SORATUN_LAMBDA_BODY"); ok {
		cfg.LambdaBody = v
	}
	if v := os.Getenv("SORATUN_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SORATUN_STRICT value %q: %w", v, err)
		}
		cfg.Strict = strict
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that can be checked without touching the
// native library.
func (c *BridgeConfig) Validate() error {
	if c.LibraryPath == "" {
		return fmt.Errorf("library path must not be empty")
	}
	if !allowedSymbols[c.Symbol] {
		return fmt.Errorf("unsupported entrypoint symbol %q (expected Send or SendRequest)", c.Symbol)
	}
	return nil
}

func (c *BridgeConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	data = []byte(substituteEnvVars(string(data)))

	var fileCfg BridgeConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to unmarshal settings file %s: %w", path, err)
	}

	if fileCfg.LibraryPath != "" {
		c.LibraryPath = fileCfg.LibraryPath
	}
	if fileCfg.Symbol != "" {
		c.Symbol = fileCfg.Symbol
	}
	if fileCfg.ConfigLocation != "" {
		c.ConfigLocation = fileCfg.ConfigLocation
	}
	if fileCfg.LambdaBody != "" {
		c.LambdaBody = fileCfg.LambdaBody
	}
	if fileCfg.Strict {
		c.Strict = true
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{env\.([A-Z0-9_]+)(:-([^}]+))?\}`)

// substituteEnvVars replaces ${env.VAR} and ${env.VAR:-default} with environment variable values
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		envVar := groups[1]
		defaultValue := groups[3]
		if value, exists := os.LookupEnv(envVar); exists {
			return value
		}
		return defaultValue
	})
}
