package output

import (
	"github.com/goccy/go-json"

	"github.com/thall/longview/internal/domain"
)

// JSONFormatter renders projected scenarios as JSON for downstream
// consumers. The full breakdowns go out unrounded; display rounding is
// left to the consumer.
type JSONFormatter struct {
	Indent bool
}

// Format serializes one projected scenario.
func (jf *JSONFormatter) Format(fs *domain.FinancialScenario) (string, error) {
	raw, err := jf.marshal(fs)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// FormatAll serializes a batch of scenarios.
func (jf *JSONFormatter) FormatAll(scenarios []*domain.FinancialScenario) (string, error) {
	raw, err := jf.marshal(scenarios)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (jf *JSONFormatter) marshal(v any) ([]byte, error) {
	if jf.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
