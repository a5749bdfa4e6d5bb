package sync

import (
	"fmt"

	"github.com/yaseminozkut/huggingface-sync-action/internal/hub"
	"github.com/yaseminozkut/huggingface-sync-action/internal/utils"
)

const (
	// DefaultCommitMessage is the summary used when the caller does not
	// provide one.
	DefaultCommitMessage = "Sync from GitHub via huggingface-sync-action"
)

// SyncRequest is the immutable configuration for a single sync run. It is
// constructed once from external input and consumed by Syncer.Sync.
type SyncRequest struct {
	// SourcePath is the local directory to upload. Must exist.
	SourcePath string

	// RepoID is the target repository. Either owner/name or a bare name,
	// which gets qualified with the token owner's username.
	RepoID string

	// Kind of the target repository. Defaults to space.
	Kind hub.RepoKind

	// Private only affects creation. Ignored if the repo already exists.
	Private bool

	// SpaceSDK is required iff Kind is space.
	SpaceSDK hub.SpaceSDK

	// Revision is the branch commits land on. Defaults to main.
	Revision string

	// CommitMessage is the commit summary.
	CommitMessage string

	// DeleteMissing also removes remote files that no longer exist
	// locally, instead of the default additive overwrite.
	DeleteMissing bool

	// IgnorePatterns are gitignore-style patterns excluded from the sync,
	// on top of the built-in version-control excludes.
	IgnorePatterns []string

	// AllowPatterns, when set, restrict the upload to matching paths.
	AllowPatterns []string
}

func (r *SyncRequest) Validate() error {
	if r.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}
	if !utils.DirExists(r.SourcePath) {
		return fmt.Errorf("source path %q is not a readable directory", r.SourcePath)
	}
	if r.RepoID == "" {
		return fmt.Errorf("%w: repo id is required", hub.ErrInvalidName)
	}

	switch r.Kind {
	case hub.RepoKindModel, hub.RepoKindDataset:
	case hub.RepoKindSpace:
		if r.SpaceSDK == "" {
			return fmt.Errorf("%w: space %q requires a space sdk", hub.ErrInvalidName, r.RepoID)
		}
	default:
		return fmt.Errorf("%w: unknown repo kind %q", hub.ErrInvalidName, r.Kind)
	}

	return nil
}

// CommitSummary returns the commit message, defaulted.
func (r *SyncRequest) CommitSummary() string {
	if r.CommitMessage != "" {
		return r.CommitMessage
	}
	return DefaultCommitMessage
}
