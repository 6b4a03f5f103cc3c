package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Request(t *testing.T) {
	line := []byte(`{"jsonrpc":"2.0","method":"server.ping","params":{"a":1},"id":7}`)

	decoded, err := Decode(line)
	require.NoError(t, err)

	require.NotNil(t, decoded.Request)
	assert.Nil(t, decoded.Notification)
	assert.Nil(t, decoded.Response)
	assert.Equal(t, "server.ping", decoded.Request.Method)
	assert.JSONEq(t, `{"a":1}`, string(decoded.Request.Params))
	assert.Equal(t, "7", string(decoded.Request.ID))
}

func TestDecode_Notification(t *testing.T) {
	line := []byte(`{"jsonrpc":"2.0","method":"event.ping"}`)

	decoded, err := Decode(line)
	require.NoError(t, err)

	require.NotNil(t, decoded.Notification)
	assert.Nil(t, decoded.Request)
	assert.Equal(t, "event.ping", decoded.Notification.Method)
}

func TestDecode_Response(t *testing.T) {
	line := []byte(`{"jsonrpc":"2.0","id":3,"result":"pong"}`)

	decoded, err := Decode(line)
	require.NoError(t, err)

	require.NotNil(t, decoded.Response)
	assert.Equal(t, "3", string(decoded.Response.ID))
	assert.JSONEq(t, `"pong"`, string(decoded.Response.Result))
	assert.Nil(t, decoded.Response.Error)
}

func TestDecode_ErrorResponse(t *testing.T) {
	line := []byte(`{"jsonrpc":"2.0","id":3,"error":{"code":-32601,"message":"method not found: x"}}`)

	decoded, err := Decode(line)
	require.NoError(t, err)

	require.NotNil(t, decoded.Response)
	require.NotNil(t, decoded.Response.Error)
	assert.Equal(t, CodeMethodNotFound, decoded.Response.Error.Code)
	assert.Equal(t, "method not found: x", decoded.Response.Error.Message)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	require.Error(t, err)
}

func TestDecode_ArrayIsError(t *testing.T) {
	_, err := Decode([]byte(`[1,2,3]`))
	require.Error(t, err)
}

// A JSON object that fits no message shape classifies as a bare
// response; the server side answers it with INVALID_REQUEST.
func TestDecode_UnshapedObject(t *testing.T) {
	decoded, err := Decode([]byte(`{"foo":"bar"}`))
	require.NoError(t, err)
	assert.Nil(t, decoded.Request)
	assert.Nil(t, decoded.Notification)
	require.NotNil(t, decoded.Response)
}

func TestEncode_RequestRoundTrip(t *testing.T) {
	req, err := NewRequest(42, "task.get", map[string]string{"slug": "fix-bug"})
	require.NoError(t, err)

	line, err := Encode(req)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), line[len(line)-1])

	decoded, err := Decode(line)
	require.NoError(t, err)
	require.NotNil(t, decoded.Request)
	assert.Equal(t, Version, decoded.Request.JSONRPC)
	assert.Equal(t, "task.get", decoded.Request.Method)
	assert.Equal(t, "42", string(decoded.Request.ID))
	assert.JSONEq(t, `{"slug":"fix-bug"}`, string(decoded.Request.Params))
}

func TestEncode_NotificationOmitsID(t *testing.T) {
	note, err := NewNotification("server.ping", nil)
	require.NoError(t, err)

	line, err := Encode(note)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(line, &raw))
	_, hasID := raw["id"]
	assert.False(t, hasID)
	_, hasParams := raw["params"]
	assert.False(t, hasParams)
}

func TestNewResult_NilEncodesNull(t *testing.T) {
	resp, err := NewResult(json.RawMessage("9"), nil)
	require.NoError(t, err)

	line, err := Encode(resp)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(line, &raw))
	assert.Equal(t, "null", string(raw["result"]))
	assert.Equal(t, "9", string(raw["id"]))
}

func TestNewError_DefaultsMissingIDToZero(t *testing.T) {
	resp := NewError(nil, CodeParseError, "parse error")

	assert.Equal(t, "0", string(resp.ID))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParseError, resp.Error.Code)
	assert.Equal(t, "rpc error -32700: parse error", resp.Error.Error())
}
