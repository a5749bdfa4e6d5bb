package action

import (
	"fmt"
	"os"

	"github.com/yaseminozkut/huggingface-sync-action/internal/utils"
)

// WriteOutput appends a step output in the format the action runner expects.
// A no-op outside of a workflow run (GITHUB_OUTPUT unset).
func WriteOutput(name, value string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	if err := utils.EnsureParent(path); err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
		return fmt.Errorf("write output %s: %w", name, err)
	}

	return nil
}
