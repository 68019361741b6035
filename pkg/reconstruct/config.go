// Package reconstruct derives opinions heuristically from external resource
// fields: consent status codes, verification flags, and completeness ratios.
// It sits outside the algebra core — the algebra consumes whatever opinions
// this package produces, with no knowledge of where they came from.
//
// All heuristics are driven by an explicit Config value passed by the
// caller; there is no global state.
package reconstruct

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains reconstruction config documents: every status
// entry must be a valid simplex point.
const configSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"status_table": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"belief": {"type": "number", "minimum": 0, "maximum": 1},
					"disbelief": {"type": "number", "minimum": 0, "maximum": 1},
					"uncertainty": {"type": "number", "minimum": 0, "maximum": 1}
				},
				"required": ["belief", "disbelief", "uncertainty"],
				"additionalProperties": false
			}
		},
		"base_rate": {"type": "number", "minimum": 0, "maximum": 1},
		"verified_uncertainty": {"type": "number", "minimum": 0, "maximum": 1},
		"unverified_uncertainty": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"additionalProperties": false
}`

// StatusOpinion is the simplex point a status code maps to.
type StatusOpinion struct {
	Belief      float64 `json:"belief"`
	Disbelief   float64 `json:"disbelief"`
	Uncertainty float64 `json:"uncertainty"`
}

// Config drives heuristic reconstruction. The zero value is not usable;
// start from DefaultConfig and override per deployment.
type Config struct {
	// StatusTable maps externally observed status codes (lower-case) to
	// simplex points.
	StatusTable map[string]StatusOpinion `json:"status_table"`

	// BaseRate is the prior attached to every reconstructed opinion.
	BaseRate float64 `json:"base_rate"`

	// VerifiedUncertainty and UnverifiedUncertainty control how much
	// uncertainty a boolean verification flag leaves behind.
	VerifiedUncertainty   float64 `json:"verified_uncertainty"`
	UnverifiedUncertainty float64 `json:"unverified_uncertainty"`
}

// DefaultConfig returns the documented defaults: active consent is strong
// but not certain evidence, withdrawn/expired status is strong evidence of
// violation, and an unknown status is honest ignorance.
func DefaultConfig() Config {
	return Config{
		StatusTable: map[string]StatusOpinion{
			"active":    {Belief: 0.90, Disbelief: 0.02, Uncertainty: 0.08},
			"withdrawn": {Belief: 0.02, Disbelief: 0.90, Uncertainty: 0.08},
			"expired":   {Belief: 0.05, Disbelief: 0.80, Uncertainty: 0.15},
			"pending":   {Belief: 0.30, Disbelief: 0.10, Uncertainty: 0.60},
			"unknown":   {Belief: 0, Disbelief: 0, Uncertainty: 1},
		},
		BaseRate:              0.5,
		VerifiedUncertainty:   0.10,
		UnverifiedUncertainty: 0.60,
	}
}

// LoadConfig reads a JSON config file, validates it against the embedded
// schema, and merges it over the defaults: absent fields keep their default
// values, present status entries replace the default entry for that status.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load reconstruct config %q: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig validates and merges JSON config bytes over the defaults.
func ParseConfig(data []byte) (Config, error) {
	schema, err := jsonschema.CompileString("reconstruct_config.json", configSchema)
	if err != nil {
		return Config{}, fmt.Errorf("compile reconstruct schema: %w", err)
	}

	var document any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&document); err != nil {
		return Config{}, fmt.Errorf("parse reconstruct config: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return Config{}, fmt.Errorf("invalid reconstruct config: %w", err)
	}

	cfg := DefaultConfig()
	var overlay struct {
		StatusTable           map[string]StatusOpinion `json:"status_table"`
		BaseRate              *float64                 `json:"base_rate"`
		VerifiedUncertainty   *float64                 `json:"verified_uncertainty"`
		UnverifiedUncertainty *float64                 `json:"unverified_uncertainty"`
	}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("parse reconstruct config: %w", err)
	}
	for status, entry := range overlay.StatusTable {
		cfg.StatusTable[status] = entry
	}
	if overlay.BaseRate != nil {
		cfg.BaseRate = *overlay.BaseRate
	}
	if overlay.VerifiedUncertainty != nil {
		cfg.VerifiedUncertainty = *overlay.VerifiedUncertainty
	}
	if overlay.UnverifiedUncertainty != nil {
		cfg.UnverifiedUncertainty = *overlay.UnverifiedUncertainty
	}
	return cfg, nil
}
