package mcp_test

import (
	"encoding/json"
	"testing"

	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalServers_MCPJSONWins(t *testing.T) {
	m := newManager(t)
	writeFile(t, m.Layout.UserMCPFile(), `{"mcpServers":{"fs":{"command":"mcpjson"}}}`)
	writeFile(t, m.Layout.DirectFile(), `{"mcpServers":{"fs":{"command":"direct"},"gh":{"command":"gh"}}}`)

	got := m.GlobalServers()

	assert.Len(t, got, 2)
	assert.Equal(t, mcp.SourceMCPJSON, got["fs"].SourceType)
	assert.Equal(t, mcp.SourceDirect, got["gh"].SourceType)
	assert.True(t, m.ServerExists("gh"))
	assert.False(t, m.ServerExists("nope"))
}

func TestUpsertGlobal(t *testing.T) {
	m := newManager(t)
	writeFile(t, m.Layout.UserMCPFile(), `{"other":true,"mcpServers":{"a":{"command":"a"}}}`)

	require.NoError(t, m.UpsertGlobal("b", json.RawMessage(`{"command":"b"}`)))
	require.NoError(t, m.UpsertGlobal("a", json.RawMessage(`{"command":"a2"}`)))

	assert.JSONEq(t, `{"other":true,"mcpServers":{"a":{"command":"a2"},"b":{"command":"b"}}}`,
		readFile(t, m.Layout.UserMCPFile()))

	err := m.UpsertGlobal("c", json.RawMessage(`["not","object"]`))
	assert.ErrorIs(t, err, ccerrors.ErrMalformedInput)
}

func TestDeleteGlobal(t *testing.T) {
	m := newManager(t)

	err := m.DeleteGlobal("a")
	assert.ErrorIs(t, err, ccerrors.ErrNotFound)

	writeFile(t, m.Layout.UserMCPFile(), `{"mcpServers":{"a":{"command":"a"},"b":{"command":"b"}}}`)
	writeFile(t, m.Layout.UserSettings(), `{"enabledMcpjsonServers":["a","b"],"disabledMcpjsonServers":["a"],"model":"x"}`)

	require.NoError(t, m.DeleteGlobal("a"))
	assert.JSONEq(t, `{"mcpServers":{"b":{"command":"b"}}}`, readFile(t, m.Layout.UserMCPFile()))
	assert.JSONEq(t, `{"enabledMcpjsonServers":["b"],"disabledMcpjsonServers":[],"model":"x"}`,
		readFile(t, m.Layout.UserSettings()))

	require.NoError(t, m.DeleteGlobal("b"))
	assert.JSONEq(t, `{}`, readFile(t, m.Layout.UserMCPFile()))

	err = m.DeleteGlobal("b")
	assert.ErrorIs(t, err, ccerrors.ErrNotFound)
}
