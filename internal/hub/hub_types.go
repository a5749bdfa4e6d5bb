package hub

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/yaseminozkut/huggingface-sync-action/internal/version"
)

const (
	HeaderUserAgent = "User-Agent"
	HeaderErrorCode = "X-Error-Code"

	// DefaultRevision is the branch commits land on unless overridden.
	DefaultRevision = "main"
)

var UserAgent = fmt.Sprintf("%s/%s (%s; %s; %s)", version.AppName, version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// RepoKind is the category of a Hub repository.
type RepoKind string

const (
	RepoKindModel   RepoKind = "model"
	RepoKindDataset RepoKind = "dataset"
	RepoKindSpace   RepoKind = "space"
)

// ParseRepoKind parses a repo kind string. An empty value defaults to space,
// matching the action's historical default.
func ParseRepoKind(s string) (RepoKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RepoKindSpace, nil
	case "model":
		return RepoKindModel, nil
	case "dataset":
		return RepoKindDataset, nil
	case "space":
		return RepoKindSpace, nil
	default:
		return "", fmt.Errorf("%w: unknown repo type %q", ErrInvalidName, s)
	}
}

// PathSegment returns the plural API path segment for the kind.
func (k RepoKind) PathSegment() string {
	return string(k) + "s"
}

// LFSPrefix returns the git remote prefix for the kind. Models live at the
// root namespace, datasets and spaces are prefixed.
func (k RepoKind) LFSPrefix() string {
	if k == RepoKindModel {
		return ""
	}
	return k.PathSegment() + "/"
}

// URLPrefix returns the web URL prefix for the kind.
func (k RepoKind) URLPrefix() string {
	return k.LFSPrefix()
}

// SpaceSDK is the runtime framework of a space repository.
type SpaceSDK string

const (
	SpaceSDKGradio    SpaceSDK = "gradio"
	SpaceSDKStreamlit SpaceSDK = "streamlit"
	SpaceSDKStatic    SpaceSDK = "static"
	SpaceSDKDocker    SpaceSDK = "docker"
)

func ParseSpaceSDK(s string) (SpaceSDK, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gradio":
		return SpaceSDKGradio, nil
	case "streamlit":
		return SpaceSDKStreamlit, nil
	case "static":
		return SpaceSDKStatic, nil
	case "docker":
		return SpaceSDKDocker, nil
	default:
		return "", fmt.Errorf("%w: unknown space sdk %q", ErrInvalidName, s)
	}
}

var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateRepoID checks that id is a well-formed `owner/name` identifier.
// Bare names (no slash) are rejected here; callers qualify them with the
// token owner's username first.
func ValidateRepoID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty repo id", ErrInvalidName)
	}

	parts := strings.Split(id, "/")
	if len(parts) != 2 {
		return fmt.Errorf("%w: repo id %q must be in owner/name form", ErrInvalidName, id)
	}

	for _, part := range parts {
		if !repoNamePattern.MatchString(part) {
			return fmt.Errorf("%w: repo id %q contains invalid characters", ErrInvalidName, id)
		}
		if strings.HasSuffix(part, ".git") {
			return fmt.Errorf("%w: repo id %q must not end in .git", ErrInvalidName, id)
		}
	}

	return nil
}

// SplitRepoID splits a validated `owner/name` id.
func SplitRepoID(id string) (owner, name string) {
	owner, name, _ = strings.Cut(id, "/")
	return owner, name
}

// RepoRef identifies a repository on the Hub.
type RepoRef struct {
	ID   string   `json:"id"`
	Kind RepoKind `json:"kind"`
	URL  string   `json:"url"`
}

// CommitRef references a commit created on the Hub.
type CommitRef struct {
	OID string `json:"oid"`
	URL string `json:"url"`
}

// WhoAmIResponse is the identity behind an access token.
type WhoAmIResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
