package logging_test

import (
	"bytes"
	"testing"

	"github.com/ruminaider/ccmate/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	t.Run("quiet logger drops info and debug", func(t *testing.T) {
		var out, errOut bytes.Buffer
		log := logging.Logger{Out: &out, Err: &errOut}
		log.Infof("hello %s", "world")
		log.Debugf("details")
		log.Warnf("careful %d", 1)
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "careful 1")
	})

	t.Run("verbose shows info only", func(t *testing.T) {
		var out bytes.Buffer
		log := logging.Logger{Verbose: true, Out: &out}
		log.Infof("hello")
		log.Debugf("details")
		assert.Contains(t, out.String(), "hello")
		assert.NotContains(t, out.String(), "details")
	})

	t.Run("debug shows both", func(t *testing.T) {
		var out bytes.Buffer
		log := logging.Logger{Debug: true, Out: &out}
		log.Infof("hello")
		log.Debugf("details")
		assert.Contains(t, out.String(), "hello")
		assert.Contains(t, out.String(), "details")
	})

	t.Run("errors go to stderr", func(t *testing.T) {
		var out, errOut bytes.Buffer
		log := logging.Logger{Out: &out, Err: &errOut}
		log.Errorf("boom")
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "boom")
	})
}
