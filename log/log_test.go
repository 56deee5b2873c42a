package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
	log "github.com/sirupsen/logrus"
)

// Helper function to capture log output
func captureOutput(fn func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	fn()
	log.SetOutput(os.Stderr)
	return buf.String()
}

func TestDebug(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	output := captureOutput(func() {
		Debug("fetching overrides from %s", "http://backend")
	})
	assert.Equal(t, strings.Contains(output, "fetching overrides from http://backend"), true)
	assert.Equal(t, strings.Contains(output, "level=debug"), true)
}

func TestInfo(t *testing.T) {
	log.SetLevel(log.InfoLevel)
	output := captureOutput(func() {
		Info("translations loaded for %d languages", 3)
	})
	assert.Equal(t, strings.Contains(output, "translations loaded for 3 languages"), true)
	assert.Equal(t, strings.Contains(output, "level=info"), true)
}

func TestWarn(t *testing.T) {
	log.SetLevel(log.WarnLevel)
	output := captureOutput(func() {
		Warn("using defaults only: %v", "connection refused")
	})
	assert.Equal(t, strings.Contains(output, "using defaults only: connection refused"), true)
	assert.Equal(t, strings.Contains(output, "level=warning"), true)
}

func TestError(t *testing.T) {
	log.SetLevel(log.ErrorLevel)
	output := captureOutput(func() {
		Error("upload failed for %s", "cover.png")
	})
	assert.Equal(t, strings.Contains(output, "upload failed for cover.png"), true)
	assert.Equal(t, strings.Contains(output, "level=error"), true)
}

func TestWith(t *testing.T) {
	log.SetLevel(log.InfoLevel)
	output := captureOutput(func() {
		With(Fields{"language": "et", "keys": 2}).Info("overrides submitted")
	})
	assert.Equal(t, strings.Contains(output, "overrides submitted"), true)
	assert.Equal(t, strings.Contains(output, "language=et"), true)
	assert.Equal(t, strings.Contains(output, "keys=2"), true)
}

func TestLogLevels_Hierarchy(t *testing.T) {
	log.SetLevel(log.WarnLevel)

	debugOutput := captureOutput(func() {
		Debug("debug should not appear")
	})
	assert.Equal(t, strings.Contains(debugOutput, "debug should not appear"), false)

	infoOutput := captureOutput(func() {
		Info("info should not appear")
	})
	assert.Equal(t, strings.Contains(infoOutput, "info should not appear"), false)

	warnOutput := captureOutput(func() {
		Warn("warn should appear")
	})
	assert.Equal(t, strings.Contains(warnOutput, "warn should appear"), true)
}

func TestConfigure(t *testing.T) {
	Configure("debug", false)
	assert.Equal(t, log.GetLevel(), log.DebugLevel)

	Configure("not-a-level", true)
	assert.Equal(t, log.GetLevel(), log.InfoLevel)
	_, isJson := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.Equal(t, isJson, true)

	Configure("info", false)
}

// Fatal calls os.Exit(1) and is not covered here.
