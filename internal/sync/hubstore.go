package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yaseminozkut/huggingface-sync-action/internal/hub"
	"github.com/yaseminozkut/huggingface-sync-action/internal/utils"
)

// HubStore adapts the Hub client to the RemoteStore interface.
type HubStore struct {
	hub *hub.Client
}

func NewHubStore(client *hub.Client) *HubStore {
	return &HubStore{hub: client}
}

var _ RemoteStore = (*HubStore)(nil)

// EnsureRepo creates the repository if it does not exist. Bare repo names
// are first qualified with the username behind the token, mirroring the
// Hub's own client behaviour.
func (h *HubStore) EnsureRepo(ctx context.Context, req *SyncRequest) (*hub.RepoRef, error) {
	repoID := req.RepoID
	if !strings.Contains(repoID, "/") {
		identity, err := h.hub.WhoAmI(ctx)
		if err != nil {
			return nil, err
		}
		repoID = identity.Name + "/" + repoID
		slog.Debug("qualified bare repo name", "repo", repoID)
	}

	return h.hub.CreateRepo(ctx, &hub.CreateRepoParams{
		RepoID:   repoID,
		Kind:     req.Kind,
		Private:  req.Private,
		SpaceSDK: req.SpaceSDK,
		ExistOK:  true,
	})
}

// UploadFolder stages every local file into a single commit. The Hub
// decides per file whether content travels inline or through LFS; LFS
// content is pushed before the commit references it. With DeleteMissing
// set, remote files absent locally are deleted in the same commit.
func (h *HubStore) UploadFolder(ctx context.Context, req *SyncRequest, repo *hub.RepoRef, files []*LocalFile) (*hub.CommitRef, error) {
	commitFiles, err := h.stageFiles(ctx, req, repo, files)
	if err != nil {
		return nil, err
	}

	var deletes []hub.CommitDelete
	if req.DeleteMissing {
		deletes, err = h.missingRemoteFiles(ctx, req, repo, files)
		if err != nil {
			return nil, err
		}
	}

	if len(commitFiles) == 0 && len(deletes) == 0 {
		return nil, nil
	}

	var lfsFiles []*hub.CommitFile
	for _, file := range commitFiles {
		if file.Mode == hub.UploadModeLFS {
			lfsFiles = append(lfsFiles, file)
		}
	}
	if len(lfsFiles) > 0 {
		slog.Info("uploading lfs files", "count", len(lfsFiles))
		if err := h.hub.UploadLFS(ctx, repo.Kind, repo.ID, lfsFiles); err != nil {
			return nil, err
		}
	}

	return h.hub.CreateCommit(ctx, &hub.CommitParams{
		RepoID:   repo.ID,
		Kind:     repo.Kind,
		Revision: req.Revision,
		Summary:  req.CommitSummary(),
		Files:    commitFiles,
		Deletes:  deletes,
	})
}

// stageFiles runs the preupload negotiation and prepares commit entries,
// computing content hashes for files the Hub routes through LFS. Negotiation
// happens against the same revision the commit lands on.
func (h *HubStore) stageFiles(ctx context.Context, req *SyncRequest, repo *hub.RepoRef, files []*LocalFile) ([]*hub.CommitFile, error) {
	if len(files) == 0 {
		return nil, nil
	}

	preFiles := make([]*hub.PreuploadFile, 0, len(files))
	byPath := make(map[string]*LocalFile, len(files))
	for _, file := range files {
		pf, err := hub.NewPreuploadFile(file.Path, file.SourcePath)
		if err != nil {
			return nil, err
		}
		preFiles = append(preFiles, pf)
		byPath[file.Path] = file
	}

	resp, err := h.hub.PreuploadFiles(ctx, &hub.PreuploadParams{
		RepoID:   repo.ID,
		Kind:     repo.Kind,
		Revision: req.Revision,
		Files:    preFiles,
	})
	if err != nil {
		return nil, err
	}

	modes := make(map[string]*hub.PreuploadResult, len(resp.Files))
	for _, result := range resp.Files {
		modes[result.Path] = result
	}

	commitFiles := make([]*hub.CommitFile, 0, len(files))
	for _, file := range files {
		mode := hub.UploadModeRegular
		if result, ok := modes[file.Path]; ok {
			if result.ShouldIgnore {
				slog.Debug("skipping server-ignored file", "path", file.Path)
				continue
			}
			if result.UploadMode != "" {
				mode = result.UploadMode
			}
		}

		cf := &hub.CommitFile{
			Path:       file.Path,
			SourcePath: file.SourcePath,
			Size:       file.Size,
			Mode:       mode,
		}
		if mode == hub.UploadModeLFS {
			oid, size, err := utils.FileSHA256(file.SourcePath)
			if err != nil {
				return nil, fmt.Errorf("hash file %s: %w", file.SourcePath, err)
			}
			cf.OID = oid
			cf.Size = size
			slog.Debug("staged lfs file", "path", file.Path, "size", humanize.Bytes(uint64(size)))
		}
		commitFiles = append(commitFiles, cf)
	}

	return commitFiles, nil
}

// missingRemoteFiles lists the remote tree and returns delete operations
// for non-ignored files that no longer exist locally.
func (h *HubStore) missingRemoteFiles(ctx context.Context, req *SyncRequest, repo *hub.RepoRef, files []*LocalFile) ([]hub.CommitDelete, error) {
	remote, err := h.hub.ListFiles(ctx, &hub.ListFilesParams{
		RepoID:   repo.ID,
		Kind:     repo.Kind,
		Revision: req.Revision,
	})
	if err != nil {
		return nil, err
	}

	local := make(map[string]struct{}, len(files))
	for _, file := range files {
		local[file.Path] = struct{}{}
	}

	ignore := NewIgnoreList(req.IgnorePatterns...)

	var deletes []hub.CommitDelete
	for _, entry := range remote {
		if ignore.ShouldIgnore(entry.Path) {
			continue
		}
		if _, ok := local[entry.Path]; ok {
			continue
		}
		deletes = append(deletes, hub.CommitDelete{Path: entry.Path})
	}

	sort.Slice(deletes, func(i, j int) bool { return deletes[i].Path < deletes[j].Path })
	for _, del := range deletes {
		slog.Info("deleting remote file", "path", del.Path)
	}

	return deletes, nil
}
