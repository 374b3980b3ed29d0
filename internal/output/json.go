package output

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes the artifact to path as indented JSON.
func WriteJSON(path string, artifact *Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report artifact: %w", err)
	}
	return nil
}
