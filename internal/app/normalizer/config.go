package normalizer

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds normalizer pipeline settings.
type Config struct {
	InputPath  string `yaml:"input_path"  env:"NORMALIZER_INPUT_PATH"`
	OutputPath string `yaml:"output_path" env:"NORMALIZER_OUTPUT_PATH"`
	ReviewPath string `yaml:"review_path" env:"NORMALIZER_REVIEW_PATH"`
	RulesPath  string `yaml:"rules_path"  env:"NORMALIZER_RULES_PATH"`
	Mode       string `yaml:"mode"        env:"NORMALIZER_MODE"       env-default:"auto"`
	Workers    int    `yaml:"workers"     env:"NORMALIZER_WORKERS"    env-default:"4"`
	BatchSize  int    `yaml:"batch_size"  env:"NORMALIZER_BATCH_SIZE" env-default:"500"`
	DryRun     bool   `yaml:"dry_run"     env:"NORMALIZER_DRY_RUN"`
	Store      bool   `yaml:"store"       env:"NORMALIZER_STORE"`
}

// Validate checks fields that cannot be defaulted.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("normalizer config: input path is required")
	}
	if !c.DryRun && c.OutputPath == "" {
		return fmt.Errorf("normalizer config: output path is required unless dry-run")
	}
	switch c.Mode {
	case "auto", "arpabet", "ipa":
	default:
		return fmt.Errorf("normalizer config: unknown mode %q (want auto, arpabet or ipa)", c.Mode)
	}
	return nil
}

// LoadConfig reads normalizer configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("normalizer config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("normalizer config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("normalizer config: read env: %w", err)
	}

	return &cfg, nil
}
