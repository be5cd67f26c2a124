package treeio

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func newTestManager() (*IOManager, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	m := New().WithOut(&out).WithErr(&errOut).NoColor()
	return m, &out, &errOut
}

func TestLogger_TaggedLevelsAndStreams(t *testing.T) {
	m, out, errOut := newTestManager()
	logger := NewLogger(m)

	logger.Info("resolved %s", "meow")
	logger.Error("unknown command: %q", "mewo")
	logger.Debug("hidden")

	if got := out.String(); got != "[INFO] resolved meow\n" {
		t.Errorf("Unexpected stdout: %q", got)
	}
	if got := errOut.String(); got != "[ERROR] unknown command: \"mewo\"\n" {
		t.Errorf("Unexpected stderr: %q", got)
	}
}

func TestLogger_FormatsAndTimestamp(t *testing.T) {
	m, out, _ := newTestManager()
	logger := NewLogger(m).WithFormat(LogFormatSymbols).WithLevel(LevelDebug).WithTimestamp(true)
	logger.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger.Success("done")
	logger.Debug("trace")

	want := "✓ 03:04:05 done\n● 03:04:05 trace\n"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	out.Reset()
	logger.WithFormat(LogFormatPlain).WithTimestamp(false).ErrorsToStderr(false)
	logger.Warning("plain")
	if got := out.String(); got != "plain\n" {
		t.Errorf("Expected plain warning on stdout, got %q", got)
	}
}

func TestLogger_BlankMessageUnprefixed(t *testing.T) {
	m, out, _ := newTestManager()
	NewLogger(m).Info("   ")
	if got := out.String(); got != "   \n" {
		t.Errorf("Expected blank message unchanged, got %q", got)
	}
}

func TestIOManager_ColorOverrides(t *testing.T) {
	m, _, _ := newTestManager()
	if m.SupportsColor() {
		t.Fatal("NoColor should disable color")
	}
	if got := m.Bold("x"); got != "x" {
		t.Errorf("Expected plain text without color, got %q", got)
	}

	m.ForceColor()
	if got := m.Colorize("x", "31"); got != "\x1b[31mx\x1b[0m" {
		t.Errorf("Unexpected ANSI output: %q", got)
	}

	m.ColorAuto()
	t.Setenv("NO_COLOR", "1")
	if m.SupportsColor() {
		t.Error("NO_COLOR should disable color")
	}
	os.Unsetenv("NO_COLOR")
	t.Setenv("FORCE_COLOR", "1")
	if !m.SupportsColor() {
		t.Error("FORCE_COLOR should enable color")
	}
}

func TestIOManager_NonFileWritersAreNotTTY(t *testing.T) {
	m, _, _ := newTestManager()
	if m.IsTTY() {
		t.Error("A bytes.Buffer is never a terminal")
	}
	m.WithIn(strings.NewReader("input"))
	if !m.IsPiped() {
		t.Error("A strings.Reader input should count as piped")
	}
}
