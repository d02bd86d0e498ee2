package main

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/teranos/locofilter/errors"
)

func TestPrintError(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	err := errors.WithHint(errors.NewConfigurationError("no backup directory given"), "pass --backup-dir")

	var buf bytes.Buffer
	printError(&buf, err, 0)
	out := buf.String()
	assert.Contains(t, out, "no backup directory given")
	assert.Contains(t, out, "hint: pass --backup-dir")
	assert.NotContains(t, out, "stack trace")

	buf.Reset()
	printError(&buf, err, 2)
	assert.Contains(t, buf.String(), "hint: pass --backup-dir")
	assert.Greater(t, len(buf.String()), len(out), "-vv adds the cause chain")
}
