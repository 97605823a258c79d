package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_FiltersBelowConfiguredLevel(t *testing.T) {
	Reset()
	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})

	log.Info().Msg("quiet-info")
	log.Warn().Msg("loud-warn")

	out := buf.String()
	if strings.Contains(out, "quiet-info") {
		t.Fatalf("info line emitted at warn level:\n%s", out)
	}
	if !strings.Contains(out, "loud-warn") {
		t.Fatalf("warn line missing:\n%s", out)
	}
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	Reset()
	var buf bytes.Buffer
	log := Init(Options{Level: "verbose", Output: &buf})

	log.Debug().Msg("hidden-debug")
	log.Info().Msg("visible-info")

	out := buf.String()
	if strings.Contains(out, "hidden-debug") {
		t.Fatalf("debug line emitted at info fallback:\n%s", out)
	}
	if !strings.Contains(out, "visible-info") {
		t.Fatalf("info line missing:\n%s", out)
	}
}

func TestInit_OnlyFirstCallTakesEffect(t *testing.T) {
	Reset()
	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	log := Init(Options{Level: "error", Output: &second})

	log.Info().Msg("goes-to-first")

	if !strings.Contains(first.String(), "goes-to-first") {
		t.Fatalf("second Init replaced the singleton")
	}
	if second.Len() != 0 {
		t.Fatalf("second Init's output received lines: %s", second.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from Get before Init")
		}
		Reset()
	}()
	Get()
}
