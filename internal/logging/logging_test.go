package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("session", "abc").Infow("Caption created", "id", "caption_0")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session"] != "abc" || fields["id"] != "caption_0" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	if l := NewLogger(false); l.Desugar().Core().Enabled(zap.DebugLevel) {
		t.Error("non-verbose logger should not log debug")
	}
	if l := NewLogger(true); !l.Desugar().Core().Enabled(zap.DebugLevel) {
		t.Error("verbose logger should log debug")
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Infow("ignored", "k", "v")
	if l.Desugar().Core().Enabled(zap.ErrorLevel) {
		t.Error("nop logger should be disabled")
	}
}
