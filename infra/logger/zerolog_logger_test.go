package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerFields(t *testing.T) {
	SetLevel("debug")
	defer SetLevel("info")
	var buf bytes.Buffer
	l := NewWithWriter("mission", &buf)
	l.Debugw("depth step", map[string]any{"depth": 1.5})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "mission", line["component"])
	assert.Equal(t, "depth step", line["message"])
	assert.Equal(t, 1.5, line["depth"])
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")
	SetLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	SetLevel("bogus")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	var buf bytes.Buffer
	SetLevel("error")
	NewWithWriter("x", &buf).Infof("hidden")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
}
