package schedule

import (
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// scheduleSchemaConstraint gates the config documents this build can read.
// Minor additions are tolerated; a major bump is a breaking change.
var scheduleSchemaConstraint = mustConstraint("^1.0")

// Duration wraps time.Duration so schedule documents can spell durations as
// Go duration strings ("4380h", "90m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Document is the YAML shape of a review-schedule config file.
type Document struct {
	SchemaVersion   string         `yaml:"schema_version"`
	DefaultHalfLife Duration       `yaml:"default_half_life"`
	Assessments     []DocumentItem `yaml:"assessments"`
}

// DocumentItem is one assessment entry in a schedule document.
type DocumentItem struct {
	ID                  string    `yaml:"id"`
	ReviewDue           time.Time `yaml:"review_due,omitempty"`
	HalfLife            Duration  `yaml:"half_life,omitempty"`
	AcceleratedHalfLife Duration  `yaml:"accelerated_half_life,omitempty"`
}

// LoadFile reads a schedule document from a YAML file and builds a Static
// provider from it.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schedule %q: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Static provider from YAML schedule bytes.
func Parse(data []byte) (*Static, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	if doc.SchemaVersion == "" {
		return nil, fmt.Errorf("parse schedule: schema_version is required")
	}
	version, err := semver.NewVersion(doc.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("parse schedule: invalid schema_version %q: %w", doc.SchemaVersion, err)
	}
	if !scheduleSchemaConstraint.Check(version) {
		return nil, fmt.Errorf("parse schedule: schema_version %s outside supported range %s",
			version, scheduleSchemaConstraint)
	}

	static := NewStatic(time.Duration(doc.DefaultHalfLife))
	for _, item := range doc.Assessments {
		if item.ID == "" {
			return nil, fmt.Errorf("parse schedule: assessment entry without id")
		}
		static.Set(item.ID, Entry{
			ReviewDue:           item.ReviewDue,
			HalfLife:            time.Duration(item.HalfLife),
			AcceleratedHalfLife: time.Duration(item.AcceleratedHalfLife),
		})
	}
	return static, nil
}

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}
