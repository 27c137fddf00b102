package template

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/thall/longview/internal/domain"
)

// Decode unmarshals an effective configuration into a typed struct by
// round-tripping through YAML, so the same tags drive both document
// loading and template resolution.
func Decode(ec domain.EffectiveConfig, out any) error {
	raw, err := yaml.Marshal(map[string]any(ec))
	if err != nil {
		return fmt.Errorf("encoding effective config: %w", err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding effective config: %w", err)
	}
	return nil
}
