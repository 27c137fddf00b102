package template

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thall/longview/internal/domain"
)

func testStore() *Store {
	return NewStore(
		&domain.Template{
			Name:    "senior_engineer",
			Version: "1",
			Params: map[string]any{
				"base_salary": 95000,
				"bonus_rate":  0.15,
				"progression": map[string]any{
					"type": "compound_rate",
					"rate": 0.04,
				},
			},
			Overrides: map[int]map[string]any{
				3: {"bonus_rate": 0.20},
			},
		},
		&domain.Template{
			Name:    "staff_engineer",
			Version: "1",
			Extends: "senior_engineer",
			Params: map[string]any{
				"base_salary": 120000,
				"rsu_rate":    0.25,
			},
		},
		&domain.Template{
			Name:    "relocating_staff",
			Version: "1",
			Extends: "staff_engineer",
			Params: map[string]any{
				"relocation_year": "{{uk_years + 1}}",
			},
		},
	)
}

func TestResolveInheritanceChain(t *testing.T) {
	r := NewResolver(testStore())

	ec, err := r.Resolve("staff_engineer", nil, nil, 1)
	require.NoError(t, err)

	// child shadows the parent's salary, inherits everything else
	assert.Equal(t, 120000, ec["base_salary"])
	assert.Equal(t, 0.15, ec["bonus_rate"])
	assert.Equal(t, 0.25, ec["rsu_rate"])
	prog := ec["progression"].(map[string]any)
	assert.Equal(t, "compound_rate", prog["type"])
}

func TestResolveYearOverride(t *testing.T) {
	r := NewResolver(testStore())

	year1, err := r.Resolve("staff_engineer", nil, nil, 1)
	require.NoError(t, err)
	year3, err := r.Resolve("staff_engineer", nil, nil, 3)
	require.NoError(t, err)

	assert.Equal(t, 0.15, year1["bonus_rate"])
	assert.Equal(t, 0.20, year3["bonus_rate"])
}

func TestResolveInstanceOverridesWin(t *testing.T) {
	r := NewResolver(testStore())

	ec, err := r.Resolve("staff_engineer", map[string]any{
		"base_salary": 140000,
		"progression": map[string]any{"rate": 0.06},
	}, nil, 3)
	require.NoError(t, err)

	assert.Equal(t, 140000, ec["base_salary"])
	// instance overrides beat year overrides too
	prog := ec["progression"].(map[string]any)
	assert.Equal(t, 0.06, prog["rate"])
	assert.Equal(t, "compound_rate", prog["type"])
}

func TestResolvePlaceholderExpansion(t *testing.T) {
	r := NewResolver(testStore())

	ec, err := r.Resolve("relocating_staff", nil, map[string]any{"uk_years": 3}, 1)
	require.NoError(t, err)

	got, ok := ec["relocation_year"].(decimal.Decimal)
	require.True(t, ok, "placeholder should resolve to a decimal, got %T", ec["relocation_year"])
	assert.True(t, got.Equal(decimal.NewFromInt(4)))
}

func TestResolveUnknownPlaceholderIdentifier(t *testing.T) {
	r := NewResolver(testStore())

	_, err := r.Resolve("relocating_staff", nil, nil, 1)
	require.Error(t, err)
	var exprErr *domain.ExpressionError
	assert.ErrorAs(t, err, &exprErr)
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(testStore())
	overrides := map[string]any{"base_salary": 130000}
	params := map[string]any{"uk_years": 2}

	first, err := r.Resolve("relocating_staff", overrides, params, 5)
	require.NoError(t, err)
	second, err := r.Resolve("relocating_staff", overrides, params, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveDoesNotAliasCache(t *testing.T) {
	r := NewResolver(testStore())

	first, err := r.Resolve("staff_engineer", nil, nil, 1)
	require.NoError(t, err)
	first["base_salary"] = -1

	second, err := r.Resolve("staff_engineer", nil, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 120000, second["base_salary"])
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(testStore())

	_, err := r.Resolve("missing", nil, nil, 1)
	require.Error(t, err)
	var notFound *domain.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
}

func TestResolveCircularInheritance(t *testing.T) {
	store := NewStore(
		&domain.Template{Name: "a", Extends: "b", Params: map[string]any{}},
		&domain.Template{Name: "b", Extends: "a", Params: map[string]any{}},
	)
	r := NewResolver(store)

	_, err := r.Resolve("a", nil, nil, 1)
	require.Error(t, err)
	var circular *domain.CircularInheritanceError
	require.ErrorAs(t, err, &circular)
	assert.Equal(t, []string{"a", "b", "a"}, circular.Chain)
}

func TestDeepMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"nested": map[string]any{"a": 1}}
	override := map[string]any{"nested": map[string]any{"b": 2}}

	merged := deepMerge(base, override)

	assert.Equal(t, map[string]any{"a": 1}, base["nested"])
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged["nested"])
}
