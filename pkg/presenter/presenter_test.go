package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWithOptions(&out, &errOut, ColorNever), &out, &errOut
}

func TestError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "loading catalog")
	assert.Contains(t, errOut.String(), "[ERROR] loading catalog: boom")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errOut.String())
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("installed")
	p.Warning("stale state")
	p.Info("plain")
	p.Section("Skills")

	got := out.String()
	assert.Contains(t, got, "✓ installed")
	assert.Contains(t, got, "⚠ stale state")
	assert.Contains(t, got, "plain")
	assert.Contains(t, got, "Skills\n------")
}

func TestTable(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Table("Results", []string{"Name", "Score"}, [][]string{
		{"debugging", "3"},
		{"testing", "1"},
	})

	got := out.String()
	assert.Contains(t, got, "Name")
	assert.Contains(t, got, "debugging")
	assert.Contains(t, got, "testing")
}

func TestQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Table("hidden", []string{"A"}, [][]string{{"b"}})
	p.Separator()
	assert.Empty(t, out.String())

	// Errors still surface in quiet mode
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}
