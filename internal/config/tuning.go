// Package config loads estimator tuning parameters from JSON. Fields
// omitted from the file fall back to compiled defaults via the Get*
// accessors, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ismarou/extrinsic-contact/internal/contact"
)

// TuningConfig is the root configuration for contact-estimation tuning.
// All fields are optional; nil means "use the default".
type TuningConfig struct {
	NumPoints  *int     `json:"num_points,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty"`
	Cutoff     *float64 `json:"cutoff,omitempty"`
	DropoutMax *float64 `json:"dropout_max,omitempty"`
	Seed       *int64   `json:"seed,omitempty"`

	PlugScale   *float64 `json:"plug_scale,omitempty"`
	SocketScale *float64 `json:"socket_scale,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that set values are usable.
func (c *TuningConfig) Validate() error {
	if c.NumPoints != nil && *c.NumPoints <= 0 {
		return fmt.Errorf("num_points must be positive, got %d", *c.NumPoints)
	}
	if c.Threshold != nil && *c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %f", *c.Threshold)
	}
	if c.Cutoff != nil && (*c.Cutoff < 0 || *c.Cutoff > 1) {
		return fmt.Errorf("cutoff must be in [0,1], got %f", *c.Cutoff)
	}
	if c.DropoutMax != nil && *c.DropoutMax > 1 {
		return fmt.Errorf("dropout_max must not exceed 1, got %f", *c.DropoutMax)
	}
	if c.PlugScale != nil && *c.PlugScale <= 0 {
		return fmt.Errorf("plug_scale must be positive, got %f", *c.PlugScale)
	}
	if c.SocketScale != nil && *c.SocketScale <= 0 {
		return fmt.Errorf("socket_scale must be positive, got %f", *c.SocketScale)
	}
	return nil
}

// GetNumPoints returns the surface sample size.
func (c *TuningConfig) GetNumPoints() int {
	if c.NumPoints == nil {
		return contact.DefaultNumPoints
	}
	return *c.NumPoints
}

// GetThreshold returns the contact distance threshold in metres.
func (c *TuningConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return contact.DefaultThreshold
	}
	return *c.Threshold
}

// GetCutoff returns the full-contact closeness cutoff.
func (c *TuningConfig) GetCutoff() float64 {
	if c.Cutoff == nil {
		return contact.DefaultCutoff
	}
	return *c.Cutoff
}

// GetDropoutMax returns the dropout fraction ceiling.
func (c *TuningConfig) GetDropoutMax() float64 {
	if c.DropoutMax == nil {
		return contact.DefaultDropoutMax
	}
	return *c.DropoutMax
}

// GetSeed returns the RNG seed; zero means time-seeded.
func (c *TuningConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetPlugScale returns the uniform plug mesh scale.
func (c *TuningConfig) GetPlugScale() float64 {
	if c.PlugScale == nil {
		return 1.0
	}
	return *c.PlugScale
}

// GetSocketScale returns the uniform socket mesh scale.
func (c *TuningConfig) GetSocketScale() float64 {
	if c.SocketScale == nil {
		return 1.0
	}
	return *c.SocketScale
}

// EstimatorConfig assembles a contact.Config from the tuning values and
// the run-specific inputs that never live in the tuning file.
func (c *TuningConfig) EstimatorConfig(plugMesh, socketMesh string, numEnvs int) contact.Config {
	return contact.Config{
		PlugMeshPath:   plugMesh,
		SocketMeshPath: socketMesh,
		PlugScale:      c.GetPlugScale(),
		SocketScale:    c.GetSocketScale(),
		NumEnvs:        numEnvs,
		NumPoints:      c.GetNumPoints(),
		Threshold:      c.GetThreshold(),
		Cutoff:         c.GetCutoff(),
		DropoutMax:     c.GetDropoutMax(),
		Seed:           c.GetSeed(),
	}
}
