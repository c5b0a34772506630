package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/structure-tensor-mcp/internal/tensor"
)

// Environment variables read by LoadConfig.
const (
	EnvLogLevel      = "TENSOR_MCP_LOG_LEVEL"
	EnvKernelSize    = "TENSOR_MCP_KERNEL_SIZE"
	EnvSigma         = "TENSOR_MCP_SIGMA"
	EnvFlatThreshold = "TENSOR_MCP_FLAT_THRESHOLD"
	EnvEdgeCoherence = "TENSOR_MCP_EDGE_COHERENCE"
)

// Config holds server settings.
type Config struct {
	// LogLevel is "info" or "debug". Debug logs image loads and kernel
	// rebuilds.
	LogLevel string

	// KernelSize and Sigma select the kernel used until a client sets
	// another one.
	KernelSize int
	Sigma      float64

	// FlatThreshold is the largest scaled eigenvalue below which a point is
	// classified as flat.
	FlatThreshold float64

	// EdgeCoherence is the coherence at or above which a non-flat point is
	// classified as an edge rather than a corner.
	EdgeCoherence float64
}

// DefaultConfig returns the settings used when no environment overrides are
// present.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		KernelSize:    9,
		Sigma:         2.0,
		FlatThreshold: 1.0,
		EdgeCoherence: 0.5,
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool { return c.LogLevel == "debug" }

// Validate checks that the default kernel is buildable and the
// classification thresholds are sensible.
func (c Config) Validate() error {
	if _, err := tensor.SetKernelParams(c.KernelSize, c.Sigma); err != nil {
		return fmt.Errorf("default kernel: %w", err)
	}
	if c.FlatThreshold < 0 {
		return fmt.Errorf("flat threshold %g must not be negative", c.FlatThreshold)
	}
	if c.EdgeCoherence < 0 || c.EdgeCoherence > 1 {
		return fmt.Errorf("edge coherence %g outside [0, 1]", c.EdgeCoherence)
	}
	return nil
}

// LoadConfig builds a Config from DefaultConfig and the TENSOR_MCP_*
// environment variables, then validates it.
func LoadConfig() (Config, error) {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvKernelSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvKernelSize, err)
		}
		cfg.KernelSize = n
	}

	floats := []struct {
		env string
		dst *float64
	}{
		{EnvSigma, &cfg.Sigma},
		{EnvFlatThreshold, &cfg.FlatThreshold},
		{EnvEdgeCoherence, &cfg.EdgeCoherence},
	}
	for _, f := range floats {
		v, ok := lookup(f.env)
		if !ok || v == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = x
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
