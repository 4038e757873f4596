package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)

			log.Debug("debug %d", 1)
			if got := strings.Contains(buf.String(), "debug 1"); got != tt.wantDebug {
				t.Fatalf("debug visible=%v, want %v", got, tt.wantDebug)
			}

			log.Info("info %d", 2)
			if got := strings.Contains(buf.String(), "info 2"); got != tt.wantInfo {
				t.Fatalf("info visible=%v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestWithFieldSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)
	child := log.WithField("component", "fetch")

	child.Info("hello")
	if !strings.Contains(buf.String(), "component=fetch") {
		t.Fatalf("expected field in output, got %q", buf.String())
	}

	log.SetLevel(LevelVerbose)
	if child.GetLevel() != LevelVerbose {
		t.Fatalf("child level not updated: %v", child.GetLevel())
	}
	child.Debug("deep")
	if !strings.Contains(buf.String(), "deep") {
		t.Fatal("child should log debug after parent switched to verbose")
	}
}
