package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		log := New(tt.level, &buf)

		log.Debug("debug %d", 1)
		assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug 1")), "level %d debug", tt.level)

		log.Info("info %s", "x")
		assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info x")), "level %d info", tt.level)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)
	log.Error("hidden")
	assert.Zero(t, buf.Len())

	log.SetLevel(LevelVerbose)
	assert.Equal(t, LevelVerbose, log.GetLevel())
	log.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelOff, ParseLevel("off"))
	assert.Equal(t, LevelVerbose, ParseLevel("verbose"))
	assert.Equal(t, LevelNormal, ParseLevel("normal"))
	assert.Equal(t, LevelNormal, ParseLevel("bogus"))
}
