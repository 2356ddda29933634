package util

import (
	"encoding/json"
	"os"
	"path"
)

// WriteJSON marshals v and writes it to savePath, creating parent
// directories as needed.
func WriteJSON(savePath string, v interface{}) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if dir := path.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	return os.WriteFile(savePath, bs, 0644)
}

// AppendToFile appends lines to savePath, creating the file and parent
// directories as needed. Benchmarks use it to grow a run log across
// experiments without rewriting earlier entries.
func AppendToFile(savePath string, lines ...string) error {
	if dir := path.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}
