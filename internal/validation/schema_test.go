package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personaprobe/personaprobe/internal/models"
)

func validArtifact(t *testing.T) []byte {
	t.Helper()
	results := models.PersonaTestResults{
		Persona:    "Jordan - First-time visitor",
		Role:       "First-time visitor",
		Background: "bg",
		Goals:      []string{"g"},
		Behaviors:  []string{"b"},
		Session: models.SessionMetrics{
			StartTime:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			ConsoleErrors: []string{},
		},
		Tasks:        []models.TaskResult{{Name: "t", Success: true, DurationMs: 10}},
		Observations: []models.Observation{{Type: models.ObservationNote, Description: "d", Location: "l"}},
		Screenshots:  []models.Screenshot{{Name: "s", Filepath: "x/s.png"}},
	}
	data, err := json.Marshal(results)
	require.NoError(t, err)
	return data
}

func TestValidateResultsBytes_ValidArtifact(t *testing.T) {
	assert.Nil(t, ValidateResultsBytes(validArtifact(t)))
}

func TestValidateResultsBytes_MissingPersona(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(validArtifact(t), &doc))
	delete(doc, "persona")
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	errs := ValidateResultsBytes(data)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "persona")
}

func TestValidateResultsBytes_BadObservationType(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(validArtifact(t), &doc))
	doc["observations"] = []map[string]any{
		{"type": "rage", "description": "d", "location": "l"},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.NotEmpty(t, ValidateResultsBytes(data))
}

func TestValidateResultsBytes_NotJSON(t *testing.T) {
	errs := ValidateResultsBytes([]byte("not json"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "JSON parse error")
}
