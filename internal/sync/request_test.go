package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yaseminozkut/huggingface-sync-action/internal/hub"
)

func TestSyncRequest_Validate(t *testing.T) {
	valid := func() *SyncRequest {
		return &SyncRequest{
			SourcePath: t.TempDir(),
			RepoID:     "alice/demo",
			Kind:       hub.RepoKindSpace,
			SpaceSDK:   hub.SpaceSDKGradio,
		}
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing source", func(t *testing.T) {
		req := valid()
		req.SourcePath = ""
		assert.Error(t, req.Validate())
	})

	t.Run("source not a directory", func(t *testing.T) {
		req := valid()
		req.SourcePath = "/definitely/not/here"
		assert.Error(t, req.Validate())
	})

	t.Run("missing repo id", func(t *testing.T) {
		req := valid()
		req.RepoID = ""
		assert.ErrorIs(t, req.Validate(), hub.ErrInvalidName)
	})

	t.Run("space requires sdk", func(t *testing.T) {
		req := valid()
		req.SpaceSDK = ""
		assert.ErrorIs(t, req.Validate(), hub.ErrInvalidName)
	})

	t.Run("model needs no sdk", func(t *testing.T) {
		req := valid()
		req.Kind = hub.RepoKindModel
		req.SpaceSDK = ""
		assert.NoError(t, req.Validate())
	})

	t.Run("unknown kind", func(t *testing.T) {
		req := valid()
		req.Kind = "notebook"
		assert.ErrorIs(t, req.Validate(), hub.ErrInvalidName)
	})
}

func TestSyncRequest_CommitSummary(t *testing.T) {
	req := &SyncRequest{}
	assert.Equal(t, DefaultCommitMessage, req.CommitSummary())

	req.CommitMessage = "deploy v2"
	assert.Equal(t, "deploy v2", req.CommitSummary())
}
