package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SAP-F-2025/valentine-service/internal/config"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{PublicBaseURL: "https://valentine.example", LinkPath: "/"}
}

func TestRunCreate_Simple(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runCreate(testConfig(), []string{"-from", "Sam", "-to", "Ari"}, &out))
	assert.Equal(t, "https://valentine.example/?from=Sam&to=Ari\n", out.String())
}

func TestRunCreate_QuizFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.csv")
	require.NoError(t, os.WriteFile(path, []byte("question,answer\nCity?,Paris\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, runCreate(testConfig(), []string{"-from", "Sam", "-to", "Ari", "-quiz", path}, &out))

	res := link.ResolveURL(strings.TrimSpace(out.String()))
	require.NoError(t, res.Err)
	assert.Equal(t, models.ModeQuiz, res.Mode)
	assert.Equal(t, "Paris", res.Payload.Quiz[0].ExpectedAnswer)
}

func TestRunCreate_MissingName(t *testing.T) {
	err := runCreate(testConfig(), []string{"-from", "Sam"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, link.ErrMissingField)
}

func TestQueryOf(t *testing.T) {
	assert.Equal(t, "from=Sam&to=Ari", queryOf("https://valentine.example/?from=Sam&to=Ari#x"))
	assert.Equal(t, "data=abc", queryOf("?data=abc"))
	assert.Equal(t, "from=Sam", queryOf("from=Sam"))
}
