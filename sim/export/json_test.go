package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_Document(t *testing.T) {
	// GIVEN a result with an open tray interaction
	var buf bytes.Buffer

	// WHEN encoded
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	// THEN both collections are present and the open record has no end
	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc["tray_interactions"], 2)
	require.Len(t, doc["material_interactions"], 1)
	assert.Equal(t, "CARRYING_FROM_SHELF", doc["tray_interactions"][0]["interaction_type"])
	assert.Equal(t, "2024-01-15T08:00:02Z", doc["tray_interactions"][0]["end"])
	assert.NotContains(t, doc["tray_interactions"][1], "end")
}

func TestWriteJSON_EmptyResult_WritesEmptyArrays(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, nil))

	assert.JSONEq(t, `{"tray_interactions":[],"material_interactions":[]}`, buf.String())
}
