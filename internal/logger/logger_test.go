package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("warn", &buf)

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("chatty", &buf)

	log.Debug("debug line")
	log.Infof("plan %s created", "abc")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.Contains(t, out, "plan abc created")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf).WithFields(map[string]interface{}{"trainer_id": "t1"})

	log.Info("summary sent")

	assert.Contains(t, buf.String(), "trainer_id=t1")
}
