package domain

// Template is one named configuration fragment. Templates compose through
// single inheritance: a child names its parent in Extends, inherits the
// parent's params, and shadows any it redefines. Overrides adjusts
// individual parameters for specific plan years without touching the
// shared params.
type Template struct {
	Name      string                 `yaml:"name" json:"name"`
	Version   string                 `yaml:"version" json:"version"`
	Extends   string                 `yaml:"extends,omitempty" json:"extends,omitempty"`
	Params    map[string]any         `yaml:"params" json:"params"`
	Overrides map[int]map[string]any `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// EffectiveConfig is a fully resolved parameter set: inheritance flattened,
// year and instance overrides applied, placeholders expanded. Values are
// plain YAML shapes (maps, slices, scalars) ready to decode into typed
// configuration.
type EffectiveConfig map[string]any
