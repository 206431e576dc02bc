package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_IsNotification(t *testing.T) {
	var withID Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":7,"method":"ping"}`), &withID))
	assert.False(t, withID.IsNotification())

	var noID Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`), &noID))
	assert.True(t, noID.IsNotification())

	var nullID Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":null,"method":"ping"}`), &nullID))
	assert.True(t, nullID.IsNotification())
}

func TestResponse_Marshal(t *testing.T) {
	ok := NewResponse(json.RawMessage(`"abc"`), map[string]any{"x": 1})
	b, err := json.Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"abc","result":{"x":1}}`, string(b))

	fail := NewErrorResponse(json.RawMessage(`3`), CodeMethodNotFound, "nope")
	b, err = json.Marshal(fail)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":3,"error":{"code":-32601,"message":"nope"}}`, string(b))
}

func TestEnvelopeHelpers(t *testing.T) {
	ok := TextResult("done")
	require.Len(t, ok.Content, 1)
	assert.Equal(t, "text", ok.Content[0].Type)
	assert.False(t, ok.IsError)

	bad := ErrorResult("boom")
	assert.True(t, bad.IsError)
	assert.Equal(t, "boom", bad.Content[0].Text)
}
