package logsink

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteMatch appends payload to <dir>/<kind>.jsonl, or <kind>.log when asJSON is false
// and payload is a string.
func WriteMatch(dir, kind string, payload interface{}, asJSON bool) error {
	fname := kind + ".jsonl"
	if !asJSON {
		fname = kind + ".log"
	}
	f, err := OpenAppend(filepath.Join(dir, fname))
	if err != nil {
		return err
	}
	defer f.Close()

	if s, ok := payload.(string); ok && !asJSON {
		_, err = f.WriteString(s + "\n")
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = f.Write(append(b, '\n'))
	return err
}

func WriteHint(dir, hint string) error {
	if hint == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, "hint.txt"), []byte(hint), 0o600)
}
