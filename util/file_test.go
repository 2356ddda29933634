package util

import (
	"encoding/json"
	"os"
	"path"
	"testing"
)

func TestWriteJSONCreatesParentDirs(t *testing.T) {
	savePath := path.Join(t.TempDir(), "results", "run1", "data.json")
	in := map[string]int{"visits": 3}
	if err := WriteJSON(savePath, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bs, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := make(map[string]int)
	if err := json.Unmarshal(bs, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["visits"] != 3 {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestAppendToFileCreatesParentDirs(t *testing.T) {
	savePath := path.Join(t.TempDir(), "results", "log.txt")
	if err := AppendToFile(savePath, "one", "two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AppendToFile(savePath, "three"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bs, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(bs) != "one\ntwo\nthree\n" {
		t.Errorf("unexpected content: %q", string(bs))
	}
}
