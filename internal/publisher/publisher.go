package publisher

import (
	"context"
	"fmt"
	"log"
)

// FileContent is one file to push, already fully generated.
type FileContent struct {
	Path    string
	Content string
}

// FileFailure records a file that could not be pushed.
type FileFailure struct {
	Path string
	Err  error
}

// PublishResult reports what a publish run did per file. Pushed and Skipped
// together cover every file that is now current on the remote; Conflicts is
// the subset of Pushed that overwrote remote content differing from what was
// generated.
type PublishResult struct {
	Repo      *RemoteRepo
	Pushed    []string
	Skipped   []string
	Conflicts []string
	Failed    []FileFailure
}

// Publisher pushes generated files to a repository host, skipping files the
// remote already holds verbatim so reruns after a crash converge instead of
// duplicating work.
type Publisher struct {
	host  Host
	retry RetryConfig
}

func NewPublisher(host Host) *Publisher {
	return &Publisher{host: host, retry: DefaultRetryConfig()}
}

// Publish ensures the repository exists and brings every file in files up to
// date on it, in order. Files whose remote blob already matches are skipped.
// A fatal host error aborts the run immediately; a transient error that
// survives all retries records the file as failed and aborts, leaving the
// remaining files untouched so a rerun picks up where this one stopped.
func (p *Publisher) Publish(ctx context.Context, repoName, description string, files []FileContent) (*PublishResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("publish %s: no files to push", repoName)
	}

	var repo *RemoteRepo
	err := withRetry(ctx, p.retry, "ensure repo", func() error {
		var ensureErr error
		repo, ensureErr = p.host.EnsureRepo(ctx, repoName, description)
		return ensureErr
	})
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", repoName, err)
	}

	var remote map[string]string
	err = withRetry(ctx, p.retry, "list tree", func() error {
		var listErr error
		remote, listErr = p.host.ListTree(ctx, repo)
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", repoName, err)
	}

	result := &PublishResult{Repo: repo}
	for _, file := range files {
		remoteSHA, exists := remote[file.Path]
		localSHA := BlobSHA(file.Content)
		if exists && remoteSHA == localSHA {
			result.Skipped = append(result.Skipped, file.Path)
			continue
		}

		message := "Add " + file.Path
		if exists {
			// Remote content diverged from what we are about to push.
			// Generated content wins; the divergence is surfaced in the
			// result rather than blocking the run.
			message = "Update " + file.Path
			result.Conflicts = append(result.Conflicts, file.Path)
			log.Printf("Publish: overwriting diverged file %s in %s/%s", file.Path, repo.Owner, repo.Name)
		}

		err := withRetry(ctx, p.retry, "put "+file.Path, func() error {
			return p.host.PutFile(ctx, repo, file.Path, file.Content, remoteSHA, message)
		})
		if err != nil {
			result.Failed = append(result.Failed, FileFailure{Path: file.Path, Err: err})
			return result, fmt.Errorf("publish %s: %w", repoName, err)
		}
		result.Pushed = append(result.Pushed, file.Path)
	}

	log.Printf("Publish: %s/%s pushed=%d skipped=%d conflicts=%d",
		repo.Owner, repo.Name, len(result.Pushed), len(result.Skipped), len(result.Conflicts))
	return result, nil
}
