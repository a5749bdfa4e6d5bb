package action

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yaseminozkut/huggingface-sync-action/internal/hub"
	"github.com/yaseminozkut/huggingface-sync-action/internal/sync"
	"github.com/yaseminozkut/huggingface-sync-action/internal/utils"
)

// Inputs are the raw composite-action inputs, as handed over by the action
// runner. String-typed on purpose: normalization into a SyncRequest happens
// in one place, SyncRequest().
type Inputs struct {
	GitHubRepoID   string // informational only
	HFRepoID       string
	Token          string
	RepoType       string
	Private        string
	SpaceSDK       string
	Subdirectory   string
	CommitMessage  string
	DeleteMissing  string
	Revision       string
	IgnorePatterns string
	Endpoint       string
	Workspace      string
}

// envBindings maps viper keys to the environment variables they read from,
// in priority order. Action inputs arrive as INPUT_*; the bare variants
// support local runs.
var envBindings = map[string][]string{
	"github_repo_id":      {"INPUT_GITHUB_REPO_ID", "GITHUB_REPOSITORY"},
	"huggingface_repo_id": {"INPUT_HUGGINGFACE_REPO_ID", "HF_REPO_ID"},
	"hf_token":            {"INPUT_HF_TOKEN", "HF_TOKEN"},
	"repo_type":           {"INPUT_REPO_TYPE"},
	"private":             {"INPUT_PRIVATE"},
	"space_sdk":           {"INPUT_SPACE_SDK"},
	"subdirectory":        {"INPUT_SUBDIRECTORY"},
	"commit_message":      {"INPUT_COMMIT_MESSAGE"},
	"delete_missing":      {"INPUT_DELETE_MISSING"},
	"revision":            {"INPUT_REVISION"},
	"ignore_patterns":     {"INPUT_IGNORE_PATTERNS"},
	"endpoint":            {"INPUT_ENDPOINT", "HF_ENDPOINT"},
	"workspace":           {"GITHUB_WORKSPACE"},
}

// FromEnv reads the action inputs from the environment. A .env file in the
// working directory is honored for local runs.
func FromEnv() *Inputs {
	_ = godotenv.Load()

	v := viper.New()
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	return &Inputs{
		GitHubRepoID:   v.GetString("github_repo_id"),
		HFRepoID:       v.GetString("huggingface_repo_id"),
		Token:          v.GetString("hf_token"),
		RepoType:       v.GetString("repo_type"),
		Private:        v.GetString("private"),
		SpaceSDK:       v.GetString("space_sdk"),
		Subdirectory:   v.GetString("subdirectory"),
		CommitMessage:  v.GetString("commit_message"),
		DeleteMissing:  v.GetString("delete_missing"),
		Revision:       v.GetString("revision"),
		IgnorePatterns: v.GetString("ignore_patterns"),
		Endpoint:       v.GetString("endpoint"),
		Workspace:      v.GetString("workspace"),
	}
}

// ParseBool normalizes the string booleans the action runner passes in.
// Only the literal token "true" (case-insensitive) and "1" are truthy;
// everything else, including "yes", is false.
func ParseBool(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}

// HubConfig builds the Hub client configuration from the inputs.
func (in *Inputs) HubConfig() *hub.Config {
	endpoint := in.Endpoint
	if endpoint == "" {
		endpoint = hub.DefaultEndpoint
	}
	return &hub.Config{
		Endpoint: endpoint,
		Token:    in.Token,
	}
}

// SyncRequest normalizes the raw inputs into an immutable request. All
// defaulting lives here: repo type falls back to space, the space SDK to
// the README front matter and then gradio, the source tree to the
// workspace root.
func (in *Inputs) SyncRequest() (*sync.SyncRequest, error) {
	if in.Token == "" {
		return nil, fmt.Errorf("%w: hf_token input is required", hub.ErrAuth)
	}
	if in.HFRepoID == "" {
		return nil, fmt.Errorf("%w: huggingface_repo_id input is required", hub.ErrInvalidName)
	}

	workspace := in.Workspace
	if workspace == "" {
		workspace = "."
	}
	source, err := utils.ResolvePath(filepath.Join(workspace, in.Subdirectory))
	if err != nil {
		return nil, err
	}
	if !utils.DirExists(source) {
		return nil, fmt.Errorf("source directory %q does not exist", source)
	}

	kind, err := hub.ParseRepoKind(in.RepoType)
	if err != nil {
		return nil, err
	}

	var spaceSDK hub.SpaceSDK
	if kind == hub.RepoKindSpace {
		raw := in.SpaceSDK
		if raw == "" {
			raw = ReadmeSpaceSDK(source)
		}
		if raw == "" {
			raw = string(hub.SpaceSDKGradio)
		}
		spaceSDK, err = hub.ParseSpaceSDK(raw)
		if err != nil {
			return nil, err
		}
	}

	return &sync.SyncRequest{
		SourcePath:     source,
		RepoID:         in.HFRepoID,
		Kind:           kind,
		Private:        ParseBool(in.Private),
		SpaceSDK:       spaceSDK,
		Revision:       in.Revision,
		CommitMessage:  in.CommitMessage,
		DeleteMissing:  ParseBool(in.DeleteMissing),
		IgnorePatterns: SplitPatterns(in.IgnorePatterns),
	}, nil
}

// SplitPatterns splits a comma- or newline-separated pattern list.
func SplitPatterns(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
