package logger

import (
	"errors"
	"testing"
)

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	parent := NewSimple().WithField("scan", "abc")
	child := parent.WithFields(map[string]interface{}{"resource": "b1"})

	if parent == child {
		t.Error("WithFields must return a new logger")
	}

	// Both must be usable after derivation.
	parent.Info("parent")
	child.Error("child", errors.New("boom"))
}

func TestNewParsesLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		l := New(level)
		if l == nil {
			t.Fatalf("New(%q) returned nil", level)
		}
		l.Debug("level " + level)
	}
}
