package publisher

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Host is the narrow surface the publisher needs from a repository host:
// idempotent repository creation, a recursive file listing, and per-path
// content writes.
type Host interface {
	// EnsureRepo creates the repository or reuses an existing one with the
	// same name under the authenticated owner.
	EnsureRepo(ctx context.Context, name, description string) (*RemoteRepo, error)
	// ListTree returns path -> git blob sha for the default branch. A repo
	// with no commits yet returns an empty map.
	ListTree(ctx context.Context, repo *RemoteRepo) (map[string]string, error)
	// PutFile creates or overwrites one file. existingSHA is the remote blob
	// sha when the path already exists, empty for a new file.
	PutFile(ctx context.Context, repo *RemoteRepo, path, content, existingSHA, message string) error
	// CheckAuth verifies the credential is usable.
	CheckAuth(ctx context.Context) (string, error)
}

// RemoteRepo identifies a repository on the host.
type RemoteRepo struct {
	Owner         string
	Name          string
	URL           string
	DefaultBranch string
}

// BlobSHA computes the git blob object id for content, the same id the host
// reports in its tree listing. Matching ids mean the remote file is already
// identical and need not be pushed.
func BlobSHA(content string) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// githubHost implements Host against the GitHub REST API.
type githubHost struct {
	client *github.Client
}

// NewGitHubHost builds a Host from a personal access token.
func NewGitHubHost(ctx context.Context, token string) (Host, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &FatalError{Op: "auth", Err: fmt.Errorf("token is empty"), Hint: "set GITHUB_TOKEN or store a github key in the keyring"}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &githubHost{client: github.NewClient(oauth2.NewClient(ctx, ts))}, nil
}

func (h *githubHost) CheckAuth(ctx context.Context) (string, error) {
	user, resp, err := h.client.Users.Get(ctx, "")
	if err != nil {
		return "", classify("check auth", resp, err)
	}
	return user.GetLogin(), nil
}

func (h *githubHost) EnsureRepo(ctx context.Context, name, description string) (*RemoteRepo, error) {
	created, resp, err := h.client.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.String(name),
		Description: github.String(description),
		Private:     github.Bool(false),
		AutoInit:    github.Bool(false),
	})
	if err == nil {
		return toRemoteRepo(created), nil
	}

	// "name already exists on this account" comes back as 422. Reuse the
	// existing repository instead of failing; creation is idempotent by
	// name and owner.
	if isNameTakenError(err) {
		login, authErr := h.CheckAuth(ctx)
		if authErr != nil {
			return nil, authErr
		}
		existing, getResp, getErr := h.client.Repositories.Get(ctx, login, name)
		if getErr != nil {
			return nil, classify("get existing repo", getResp, getErr)
		}
		return toRemoteRepo(existing), nil
	}
	return nil, classify("create repo", resp, err)
}

func isNameTakenError(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	for _, e := range ghErr.Errors {
		if strings.Contains(strings.ToLower(e.Message), "already exists") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(ghErr.Message), "already exists")
}

func (h *githubHost) ListTree(ctx context.Context, repo *RemoteRepo) (map[string]string, error) {
	branch := repo.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	tree, resp, err := h.client.Git.GetTree(ctx, repo.Owner, repo.Name, branch, true)
	if err != nil {
		// An empty repository has no ref to resolve yet.
		if resp != nil && (resp.StatusCode == 404 || resp.StatusCode == 409) {
			return map[string]string{}, nil
		}
		return nil, classify("list tree", resp, err)
	}
	files := make(map[string]string, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			files[entry.GetPath()] = entry.GetSHA()
		}
	}
	return files, nil
}

func (h *githubHost) PutFile(ctx context.Context, repo *RemoteRepo, path, content, existingSHA, message string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
	}
	if existingSHA != "" {
		opts.SHA = github.String(existingSHA)
		_, resp, err := h.client.Repositories.UpdateFile(ctx, repo.Owner, repo.Name, path, opts)
		return classify("update "+path, resp, err)
	}
	_, resp, err := h.client.Repositories.CreateFile(ctx, repo.Owner, repo.Name, path, opts)
	return classify("create "+path, resp, err)
}

func toRemoteRepo(repo *github.Repository) *RemoteRepo {
	return &RemoteRepo{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		URL:           repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
	}
}
