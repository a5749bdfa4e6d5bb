package hub

// UploadMode is how a file's content travels to the Hub: inline in the
// commit payload, or out-of-band through LFS.
type UploadMode string

const (
	UploadModeRegular UploadMode = "regular"
	UploadModeLFS     UploadMode = "lfs"
)

// CommitFile is one file staged for a commit.
type CommitFile struct {
	Path       string // path in the repo, slash-separated
	SourcePath string // absolute local path
	Size       int64
	Mode       UploadMode
	OID        string // sha256 hex, set for LFS files
}

// CommitDelete removes a remote file as part of a commit.
type CommitDelete struct {
	Path string
}

// CommitParams describes a single atomic commit against a repository.
type CommitParams struct {
	RepoID   string
	Kind     RepoKind
	Revision string // defaults to main
	Summary  string
	Files    []*CommitFile
	Deletes  []CommitDelete
}

// PreuploadParams asks the Hub how each file should be uploaded.
type PreuploadParams struct {
	RepoID   string
	Kind     RepoKind
	Revision string
	Files    []*PreuploadFile
}

type PreuploadFile struct {
	Path   string `json:"path"`
	Sample string `json:"sample"` // base64 of the leading bytes
	Size   int64  `json:"size"`
}

type preuploadRequest struct {
	Files []*PreuploadFile `json:"files"`
}

// PreuploadResponse carries the Hub's upload-mode decision per file.
type PreuploadResponse struct {
	Files []*PreuploadResult `json:"files"`
}

type PreuploadResult struct {
	Path         string     `json:"path"`
	UploadMode   UploadMode `json:"uploadMode"`
	ShouldIgnore bool       `json:"shouldIgnore"`
}

// ndjson line keys of the commit wire format
type commitHeaderValue struct {
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
}

type commitFileValue struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type commitLFSFileValue struct {
	Path string `json:"path"`
	Algo string `json:"algo"`
	OID  string `json:"oid"`
	Size int64  `json:"size"`
}

type commitDeleteValue struct {
	Path string `json:"path"`
}

type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commitResponse struct {
	CommitURL string `json:"commitUrl"`
	CommitOID string `json:"commitOid"`
}
