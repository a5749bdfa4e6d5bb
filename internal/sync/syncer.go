package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yaseminozkut/huggingface-sync-action/internal/hub"
)

// RemoteStore is the capability surface the syncer needs from the Hub. It
// exists so the orchestration (ordering, error propagation) stays testable
// against a fake store.
type RemoteStore interface {
	// EnsureRepo idempotently guarantees the target repository exists.
	// Existing repositories are returned untouched.
	EnsureRepo(ctx context.Context, req *SyncRequest) (*hub.RepoRef, error)

	// UploadFolder commits the given local files to the root of the
	// repository, overwriting remote files at the same path. A nil
	// CommitRef means there was nothing to commit.
	UploadFolder(ctx context.Context, req *SyncRequest, repo *hub.RepoRef, files []*LocalFile) (*hub.CommitRef, error)
}

// Result summarizes a completed sync run.
type Result struct {
	Repo      *hub.RepoRef
	Commit    *hub.CommitRef // nil when no commit was needed
	FileCount int
	TotalSize int64
}

// Syncer mirrors a local directory into a Hub repository. One request runs
// start to finish; there is no retry loop here, every failure surfaces to
// the caller with the remote left wherever the last successful step put it.
type Syncer struct {
	store RemoteStore
}

func New(store RemoteStore) *Syncer {
	return &Syncer{store: store}
}

func (s *Syncer) Sync(ctx context.Context, req *SyncRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tstart := time.Now()
	slog.Info("sync start", "repo", req.RepoID, "kind", req.Kind, "dir", req.SourcePath)

	repo, err := s.store.EnsureRepo(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Info("repo ready", "url", repo.URL)

	files, err := ListLocalFiles(req.SourcePath, NewIgnoreList(req.IgnorePatterns...), req.AllowPatterns)
	if err != nil {
		return nil, err
	}

	var totalSize int64
	for _, f := range files {
		totalSize += f.Size
	}
	slog.Info("local files collected", "count", len(files), "size", humanize.Bytes(uint64(totalSize)))

	commit, err := s.store.UploadFolder(ctx, req, repo, files)
	if err != nil {
		return nil, err
	}

	if commit == nil {
		slog.Info("no changes detected, skipping commit", "took", time.Since(tstart))
	} else {
		slog.Info("sync done", "commit", commit.OID, "took", time.Since(tstart))
	}

	return &Result{
		Repo:      repo,
		Commit:    commit,
		FileCount: len(files),
		TotalSize: totalSize,
	}, nil
}
