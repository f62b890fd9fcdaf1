package httpapi

import (
	"os"
	"path/filepath"
)

// specFilePath returns the filesystem path of a session's persisted spec
// artifact (spec §4.8, §6: "<session_id>.md" under an implementation-chosen
// directory).
func specFilePath(dir, sessionID string) string {
	return filepath.Join(dir, sessionID+".md")
}

func writeSpecFile(dir, sessionID, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(specFilePath(dir, sessionID), []byte(content), 0o644)
}

func readSpecFile(dir, sessionID string) ([]byte, error) {
	return os.ReadFile(specFilePath(dir, sessionID))
}
