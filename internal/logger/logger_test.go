package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestBuild_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug", Component: "test"}, &buf)
	zl.Info().Str("k", "v").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["component"] != "test" || entry["msg"] != "hello" || entry["k"] != "v" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatal("missing timestamp")
	}
}

func TestBuild_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "error"}, &buf)
	zl.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at error level: %s", buf.String())
	}
}
