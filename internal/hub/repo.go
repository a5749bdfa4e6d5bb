package hub

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	apiRepoCreate = "/api/repos/create"
)

// CreateRepoParams describes a repository to create.
type CreateRepoParams struct {
	RepoID   string   // owner/name, required
	Kind     RepoKind // required
	Private  bool
	SpaceSDK SpaceSDK // required iff Kind == RepoKindSpace
	ExistOK  bool     // treat an already-existing repo as success
}

func (p *CreateRepoParams) Validate() error {
	if err := ValidateRepoID(p.RepoID); err != nil {
		return err
	}
	if p.Kind == RepoKindSpace && p.SpaceSDK == "" {
		return fmt.Errorf("%w: space %q requires a space sdk", ErrInvalidName, p.RepoID)
	}
	return nil
}

type createRepoRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Private      bool   `json:"private"`
	Type         string `json:"type"`
	SDK          string `json:"sdk,omitempty"`
}

type createRepoResponse struct {
	URL string `json:"url"`
}

// CreateRepo creates a repository on the Hub. With ExistOK set, an already
// existing repository is returned as-is and its settings are left untouched.
func (c *Client) CreateRepo(ctx context.Context, params *CreateRepoParams) (*RepoRef, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	owner, name := SplitRepoID(params.RepoID)
	body := &createRepoRequest{
		Name:         name,
		Organization: owner,
		Private:      params.Private,
		Type:         string(params.Kind),
	}
	if params.Kind == RepoKindSpace {
		body.SDK = string(params.SpaceSDK)
	}

	var apiResp createRepoResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetSuccessResult(&apiResp).
		Post(apiRepoCreate)

	if err == nil && resp.StatusCode == http.StatusConflict && params.ExistOK {
		// repo already exists, which is fine. existing visibility and
		// runtime settings are never altered here.
		return c.repoRef(params.RepoID, params.Kind, ""), nil
	}

	if err := handleAPIError(resp, err, "create repo"); err != nil {
		return nil, err
	}

	return c.repoRef(params.RepoID, params.Kind, apiResp.URL), nil
}

func (c *Client) repoRef(repoID string, kind RepoKind, url string) *RepoRef {
	if url == "" {
		url = fmt.Sprintf("%s/%s%s", c.endpoint, kind.URLPrefix(), repoID)
	}
	return &RepoRef{
		ID:   repoID,
		Kind: kind,
		URL:  url,
	}
}

// ListFilesParams selects a repository revision to inventory.
type ListFilesParams struct {
	RepoID   string
	Kind     RepoKind
	Revision string // defaults to main
}

// TreeEntry is a single object in a repository tree listing.
type TreeEntry struct {
	Type string `json:"type"` // "file", "directory"
	OID  string `json:"oid"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}

// ListFiles returns every file in the repository tree at the given revision,
// following the Hub's Link-header pagination.
func (c *Client) ListFiles(ctx context.Context, params *ListFilesParams) ([]*TreeEntry, error) {
	revision := params.Revision
	if revision == "" {
		revision = DefaultRevision
	}

	url := fmt.Sprintf("%s/api/%s/%s/tree/%s?recursive=true", c.endpoint, params.Kind.PathSegment(), params.RepoID, revision)

	var files []*TreeEntry
	for url != "" {
		var page []*TreeEntry
		resp, err := c.http.R().
			SetContext(ctx).
			SetSuccessResult(&page).
			Get(url)

		if err := handleAPIError(resp, err, "list repo files"); err != nil {
			return nil, err
		}

		for _, entry := range page {
			if entry.Type == "file" {
				files = append(files, entry)
			}
		}

		url = nextPageLink(resp.Header.Get("Link"))
	}

	return files, nil
}

// nextPageLink extracts the rel="next" target from a Link header, or ""
// when the last page was reached.
func nextPageLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		url := strings.TrimSpace(section[0])
		return strings.Trim(url, "<>")
	}
	return ""
}
