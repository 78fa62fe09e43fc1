package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONFields(t *testing.T) {
	Reset()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf, Service: "creatorhubd", Env: "test"})
	log := Component("wallet")
	log.Debug().Str("address", "0xabc").Msg("connected")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line %q: %v", buf.String(), err)
	}
	for k, want := range map[string]string{
		"service":   "creatorhubd",
		"env":       "test",
		"component": "wallet",
		"address":   "0xabc",
		"level":     "debug",
		"message":   "connected",
	} {
		if entry[k] != want {
			t.Fatalf("%s: got %v want %s", k, entry[k], want)
		}
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	var first, second bytes.Buffer
	Init(Options{Level: "warn", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	log := Get()
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")
	if second.Len() != 0 {
		t.Fatalf("second Init must not take effect")
	}
	if bytes.Contains(first.Bytes(), []byte("dropped")) || !bytes.Contains(first.Bytes(), []byte("kept")) {
		t.Fatalf("unexpected output %q", first.String())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	} {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v want %v", in, got, want)
		}
	}
}
