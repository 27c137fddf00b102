package expr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thall/longview/internal/domain"
)

func bindings() Bindings {
	return Bindings{
		"uk_years":   decimal.NewFromInt(3),
		"multiplier": decimal.RequireFromString("1.25"),
	}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"literal", "42", "42"},
		{"decimal literal", "0.05", "0.05"},
		{"identifier", "uk_years", "3"},
		{"addition", "uk_years + 1", "4"},
		{"subtraction", "uk_years - 5", "-2"},
		{"multiplication", "uk_years * multiplier", "3.75"},
		{"division", "uk_years / 2", "1.5"},
		{"precedence", "1 + uk_years * 2", "7"},
		{"parentheses", "(1 + uk_years) * 2", "8"},
		{"unary minus", "-uk_years + 10", "7"},
		{"whitespace", "  uk_years   +   1 ", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.src, bindings())
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown identifier", "us_years + 1"},
		{"trailing garbage", "1 + 2 3"},
		{"unsupported operator", "uk_years % 2"},
		{"unsupported operator at start", "% 2"},
		{"stray character", "uk_years @ 2"},
		{"division by zero", "1 / 0"},
		{"unclosed paren", "(1 + 2"},
		{"empty", ""},
		{"malformed number", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.src, bindings())
			require.Error(t, err)
			var exprErr *domain.ExpressionError
			assert.ErrorAs(t, err, &exprErr)
		})
	}
}

func TestExpandString(t *testing.T) {
	got, err := ExpandString("phase_{{uk_years + 1}}_start", bindings())
	require.NoError(t, err)
	assert.Equal(t, "phase_4_start", got)

	got, err = ExpandString("{{uk_years * multiplier}}", bindings())
	require.NoError(t, err)
	assert.Equal(t, "3.75", got)

	got, err = ExpandString("no placeholders here", bindings())
	require.NoError(t, err)
	assert.Equal(t, "no placeholders here", got)

	_, err = ExpandString("broken {{uk_years", bindings())
	require.Error(t, err)
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("{{x}}"))
	assert.True(t, HasPlaceholder("a {{ x + 1 }} b"))
	assert.False(t, HasPlaceholder("plain"))
	assert.False(t, HasPlaceholder("{{unclosed"))
}
