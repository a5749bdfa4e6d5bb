package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/yaseminozkut/huggingface-sync-action/internal/utils"
)

const (
	// preuploadBatchSize caps files per preupload call, mirroring the
	// Hub's own client behaviour.
	preuploadBatchSize = 256

	// sampleSize is how many leading bytes the Hub sniffs to pick an
	// upload mode.
	sampleSize = 512
)

// PreuploadFiles asks the Hub whether each file commits inline or via LFS.
// Requests are batched; results are returned in submission order.
func (c *Client) PreuploadFiles(ctx context.Context, params *PreuploadParams) (*PreuploadResponse, error) {
	revision := params.Revision
	if revision == "" {
		revision = DefaultRevision
	}
	path := fmt.Sprintf("/api/%s/%s/preupload/%s", params.Kind.PathSegment(), params.RepoID, revision)

	combined := &PreuploadResponse{}
	for start := 0; start < len(params.Files); start += preuploadBatchSize {
		end := min(start+preuploadBatchSize, len(params.Files))

		var apiResp PreuploadResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(&preuploadRequest{Files: params.Files[start:end]}).
			SetSuccessResult(&apiResp).
			Post(path)

		if err := handleAPIError(resp, err, "preupload"); err != nil {
			return nil, err
		}

		combined.Files = append(combined.Files, apiResp.Files...)
	}

	return combined, nil
}

// NewPreuploadFile stats and samples a local file for a preupload request.
func NewPreuploadFile(repoPath, localPath string) (*PreuploadFile, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	sample, err := utils.FileSample(localPath, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("sample file: %w", err)
	}

	return &PreuploadFile{
		Path:   repoPath,
		Sample: base64.StdEncoding.EncodeToString(sample),
		Size:   info.Size(),
	}, nil
}

// CreateCommit commits the staged file and delete operations in a single
// atomic commit and returns its reference. LFS files must already be
// uploaded via UploadLFS; only their pointers travel in the payload.
func (c *Client) CreateCommit(ctx context.Context, params *CommitParams) (*CommitRef, error) {
	revision := params.Revision
	if revision == "" {
		revision = DefaultRevision
	}
	path := fmt.Sprintf("/api/%s/%s/commit/%s", params.Kind.PathSegment(), params.RepoID, revision)

	payload, err := buildCommitPayload(params)
	if err != nil {
		return nil, err
	}

	var apiResp commitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetContentType("application/x-ndjson").
		SetBody(payload).
		SetSuccessResult(&apiResp).
		Post(path)

	if err := handleAPIError(resp, err, "create commit"); err != nil {
		return nil, err
	}

	return &CommitRef{
		OID: apiResp.CommitOID,
		URL: apiResp.CommitURL,
	}, nil
}

func buildCommitPayload(params *CommitParams) ([]byte, error) {
	var buf bytes.Buffer

	writeLine := func(key string, value any) error {
		line, err := jsonMarshal(&commitLine{Key: key, Value: value})
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
		return nil
	}

	if err := writeLine("header", &commitHeaderValue{Summary: params.Summary}); err != nil {
		return nil, err
	}

	for _, file := range params.Files {
		switch file.Mode {
		case UploadModeLFS:
			if err := writeLine("lfsFile", &commitLFSFileValue{
				Path: file.Path,
				Algo: "sha256",
				OID:  file.OID,
				Size: file.Size,
			}); err != nil {
				return nil, err
			}
		default:
			content, err := os.ReadFile(file.SourcePath)
			if err != nil {
				return nil, fmt.Errorf("read file %s: %w", file.SourcePath, err)
			}
			if err := writeLine("file", &commitFileValue{
				Path:     file.Path,
				Content:  base64.StdEncoding.EncodeToString(content),
				Encoding: "base64",
			}); err != nil {
				return nil, err
			}
		}
	}

	for _, del := range params.Deletes {
		if err := writeLine("deletedFile", &commitDeleteValue{Path: del.Path}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
