// Package config loads the optional preflight.yaml manifest.
// A missing manifest is not an error: the harness falls back to the built-in
// defaults so a bare invocation needs no configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ManifestName is the fixed manifest filename, relative to the target directory.
const ManifestName = "preflight.yaml"

// Step is one environment-preparation command: a description plus a process
// invocation. The sequence of steps is fixed for the duration of a run.
type Step struct {
	Description string            `mapstructure:"description" yaml:"description"`
	Command     string            `mapstructure:"command" yaml:"command"`
	Args        []string          `mapstructure:"args" yaml:"args"`
	Env         map[string]string `mapstructure:"env" yaml:"env"`
}

// Lint holds the advisory-pass thresholds. The strict pass has no knobs.
type Lint struct {
	MaxComplexity int `mapstructure:"max_complexity" yaml:"max_complexity"`
	MaxLineLength int `mapstructure:"max_line_length" yaml:"max_line_length"`
}

// Target is one load-check target: the package to load, the conventionally
// named symbol it must export, the registry service name used in embedded
// mode, and a human-readable label for the confirmation line.
type Target struct {
	Package string `mapstructure:"package" yaml:"package"`
	Symbol  string `mapstructure:"symbol" yaml:"symbol"`
	Service string `mapstructure:"service" yaml:"service"`
	Label   string `mapstructure:"label" yaml:"label"`
}

// Manifest is the full harness configuration for one target directory.
type Manifest struct {
	Steps   []Step   `mapstructure:"steps" yaml:"steps"`
	Lint    Lint     `mapstructure:"lint" yaml:"lint"`
	Targets []Target `mapstructure:"targets" yaml:"targets"`
}

// Default returns the built-in manifest: dependency refresh from go.mod, the
// stock lint thresholds, and the four service targets of the transcription
// application (entry point first, then auth, transcription, storage).
func Default() Manifest {
	return Manifest{
		Steps: []Step{
			{Description: "download module dependencies", Command: "go", Args: []string{"mod", "download"}},
			{Description: "verify dependency checksums", Command: "go", Args: []string{"mod", "verify"}},
		},
		Lint: Lint{
			MaxComplexity: 10,
			MaxLineLength: 127,
		},
		Targets: []Target{
			{Package: "./app", Symbol: "App", Service: "app", Label: "application entry point"},
			{Package: "./app/services/auth", Symbol: "Service", Service: "auth", Label: "auth service"},
			{Package: "./app/services/transcription", Symbol: "Service", Service: "transcription", Label: "transcription service"},
			{Package: "./app/storage/transcripts", Symbol: "Store", Service: "transcripts", Label: "transcript storage"},
		},
	}
}

// Load reads the manifest from dir, merging it over the defaults.
// Keys absent from the file keep their default values; a present list
// replaces the default list wholesale.
func Load(dir string) (Manifest, error) {
	cfg := Default()

	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read manifest: %w", err)
	}

	// Decode via a generic document first so mapstructure can merge over the
	// prefilled defaults instead of zeroing absent sections.
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}

	if err := mapstructure.Decode(doc, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", ManifestName, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (m Manifest) validate() error {
	for i, s := range m.Steps {
		if s.Command == "" {
			return fmt.Errorf("steps[%d]: command is required", i)
		}
	}
	for i, t := range m.Targets {
		if t.Package == "" && t.Service == "" {
			return fmt.Errorf("targets[%d]: package or service is required", i)
		}
		if t.Symbol == "" && t.Package != "" {
			return fmt.Errorf("targets[%d]: symbol is required for package targets", i)
		}
	}
	return nil
}
