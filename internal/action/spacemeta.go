package action

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// readmeMeta is the slice of the Hub's README front matter we care about.
type readmeMeta struct {
	SDK string `yaml:"sdk"`
}

// ReadmeSpaceSDK returns the space SDK declared in the YAML front matter of
// dir's README.md, or "" when absent. The Hub itself reads the runtime from
// this block, so an explicit declaration beats the action's default.
func ReadmeSpaceSDK(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		return ""
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return ""
	}

	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return ""
	}

	var meta readmeMeta
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return ""
	}

	return strings.TrimSpace(meta.SDK)
}
