package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupInput struct {
	Table    string   `json:"table" jsonschema:"required,description=Dataset table name"`
	Column   string   `json:"column" jsonschema:"required,description=Dataset column name"`
	StartAt  string   `json:"start_at,omitempty" jsonschema:"description=Inclusive start date"`
	StockIDs []string `json:"stock_ids,omitempty" jsonschema:"description=Stock ID filter"`
}

type simInput struct {
	Position string   `json:"position" jsonschema:"required"`
	Resample string   `json:"resample,omitempty" jsonschema:"enum=D,enum=W,enum=M,default=M"`
	StopLoss *float64 `json:"stop_loss,omitempty"`
	Params   struct {
		Period int `json:"period,omitempty"`
	} `json:"params,omitempty"`
}

type emptyInput struct{}

func TestGenerate_RequiredAndOptional(t *testing.T) {
	s := Generate[lookupInput]()

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"table", "column"}, s.Required)

	require.Contains(t, s.Properties, "table")
	require.Contains(t, s.Properties, "start_at")
	require.Contains(t, s.Properties, "stock_ids")

	table, ok := s.Properties["table"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", table["type"])
	assert.Equal(t, "Dataset table name", table["description"])
}

func TestGenerate_ArrayItems(t *testing.T) {
	s := Generate[lookupInput]()

	ids, ok := s.Properties["stock_ids"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", ids["type"])

	items, ok := ids["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", items["type"])
}

func TestGenerate_EnumAndDefault(t *testing.T) {
	s := Generate[simInput]()

	resample, ok := s.Properties["resample"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"D", "W", "M"}, resample["enum"])
	assert.Equal(t, "M", resample["default"])
}

func TestGenerate_PointerFieldIsNumber(t *testing.T) {
	s := Generate[simInput]()

	stopLoss, ok := s.Properties["stop_loss"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", stopLoss["type"])
	assert.NotContains(t, s.Required, "stop_loss")
}

func TestGenerate_EmptyInput(t *testing.T) {
	s := Generate[emptyInput]()
	assert.Equal(t, "object", s.Type)
	assert.Empty(t, s.Required)
}

func TestGenerate_SerializesCleanly(t *testing.T) {
	s := Generate[lookupInput]()

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var round map[string]any
	require.NoError(t, json.Unmarshal(b, &round))
	assert.Equal(t, "object", round["type"])
	require.Contains(t, round, "properties")
}
