package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Descriptors(t *testing.T) {
	r := NewRegistry()
	descriptors := r.Descriptors()

	require.Len(t, descriptors, 4)
	assert.Equal(t, NameGetStockData, descriptors[0].Name)
	assert.Equal(t, NameBacktestStrategy, descriptors[1].Name)
	assert.Equal(t, NameGetTechnicalIndicator, descriptors[2].Name)
	assert.Equal(t, NameCheckAPIToken, descriptors[3].Name)

	for _, d := range descriptors {
		assert.NotEmpty(t, d.Description, d.Name)
		assert.Equal(t, "object", d.InputSchema.Type, d.Name)
	}
}

func TestRegistry_ListIsIdempotent(t *testing.T) {
	r := NewRegistry()
	first := r.Descriptors()
	second := r.Descriptors()
	assert.Equal(t, first, second)

	// Mutating a returned slice does not leak into the registry.
	first[0].Name = "mutated"
	assert.Equal(t, NameGetStockData, r.Descriptors()[0].Name)
}

func TestRegistry_RequiredFields(t *testing.T) {
	r := NewRegistry()
	required := map[string][]string{}
	for _, d := range r.Descriptors() {
		required[d.Name] = d.InputSchema.Required
	}

	assert.Equal(t, []string{"table", "column"}, required[NameGetStockData])
	assert.Equal(t, []string{"position_data"}, required[NameBacktestStrategy])
	assert.Equal(t, []string{"indicator_name"}, required[NameGetTechnicalIndicator])
	assert.Empty(t, required[NameCheckAPIToken])
}

func TestRegistry_ResampleEnum(t *testing.T) {
	r := NewRegistry()
	var backtest map[string]any
	for _, d := range r.Descriptors() {
		if d.Name == NameBacktestStrategy {
			backtest = d.InputSchema.Properties
		}
	}
	require.NotNil(t, backtest)

	resample, ok := backtest["resample"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"D", "W", "M"}, resample["enum"])
	assert.Equal(t, "M", resample["default"])
}
