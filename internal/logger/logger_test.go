package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "jumble", log.InfoLevel, false, false, log.TextFormatter)

	l.Debug("hidden")
	l.Info("solved", "letters", "ACOME")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "letters=ACOME")
	assert.Contains(t, out, "jumble")
}

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, log.DebugLevel, New("x").GetLevel())

	Setup(false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.Equal(t, log.WarnLevel, New("x").GetLevel())
}
