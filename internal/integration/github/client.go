// Package github files review issues and writes published materials through the
// GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v62/github"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/pkg/config"
)

// RemoteError carries the message GitHub returned for a failed call.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Err }

// Client implements the review sink and the content repository.
type Client struct {
	api         *gh.Client
	owner       string
	reviewRepo  string
	contentRepo string
	branch      string
	logger      *zap.Logger
}

// NewClient builds an authenticated client from configuration.
func NewClient(cfg config.GitHubConfig, logger *zap.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("github: token and owner are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api := gh.NewClient(&http.Client{Timeout: cfg.Timeout}).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: parse base url: %w", err)
		}
		api.BaseURL = base
	}

	branch := cfg.ContentBranch
	if branch == "" {
		branch = "main"
	}
	return &Client{
		api:         api,
		owner:       cfg.Owner,
		reviewRepo:  cfg.ReviewRepo,
		contentRepo: cfg.ContentRepo,
		branch:      branch,
		logger:      logger,
	}, nil
}

// CreateIssue opens a review issue and returns its web URL.
func (c *Client) CreateIssue(ctx context.Context, issue models.ReviewIssue) (string, error) {
	labels := issue.Labels
	created, _, err := c.api.Issues.Create(ctx, c.owner, c.reviewRepo, &gh.IssueRequest{
		Title:  gh.String(issue.Title),
		Body:   gh.String(issue.Body),
		Labels: &labels,
	})
	if err != nil {
		return "", remoteError("create issue", err)
	}
	c.logger.Info("review issue created", zap.Int("number", created.GetNumber()), zap.String("url", created.GetHTMLURL()))
	return created.GetHTMLURL(), nil
}

// PutFile creates or replaces a file on the content branch.
func (c *Client) PutFile(ctx context.Context, filePath string, content []byte, message string) (*models.PublishResult, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
		Branch:  gh.String(c.branch),
	}

	existing, _, _, err := c.api.Repositories.GetContents(ctx, c.owner, c.contentRepo, filePath, &gh.RepositoryContentGetOptions{Ref: c.branch})
	switch {
	case err == nil && existing != nil:
		opts.SHA = gh.String(existing.GetSHA())
	case err != nil && !isNotFound(err):
		return nil, remoteError("look up "+filePath, err)
	}

	var res *gh.RepositoryContentResponse
	if opts.SHA != nil {
		res, _, err = c.api.Repositories.UpdateFile(ctx, c.owner, c.contentRepo, filePath, opts)
	} else {
		res, _, err = c.api.Repositories.CreateFile(ctx, c.owner, c.contentRepo, filePath, opts)
	}
	if err != nil {
		return nil, remoteError("write "+filePath, err)
	}

	result := &models.PublishResult{Path: filePath}
	if res != nil && res.Content != nil {
		result.URL = res.Content.GetHTMLURL()
		result.DownloadURL = res.Content.GetDownloadURL()
		if p := res.Content.GetPath(); p != "" {
			result.Path = p
		}
	}
	return result, nil
}

// ListFiles lists the entries of a directory on the content branch.
func (c *Client) ListFiles(ctx context.Context, dir string) ([]models.ContentFile, error) {
	_, entries, _, err := c.api.Repositories.GetContents(ctx, c.owner, c.contentRepo, dir, &gh.RepositoryContentGetOptions{Ref: c.branch})
	if err != nil {
		if isNotFound(err) {
			return []models.ContentFile{}, nil
		}
		return nil, remoteError("list "+dir, err)
	}
	files := make([]models.ContentFile, 0, len(entries))
	for _, e := range entries {
		if e.GetType() != "file" {
			continue
		}
		files = append(files, models.ContentFile{Name: e.GetName(), Path: e.GetPath()})
	}
	return files, nil
}

// ReadFile returns the decoded content of a file on the content branch.
func (c *Client) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	file, _, _, err := c.api.Repositories.GetContents(ctx, c.owner, c.contentRepo, filePath, &gh.RepositoryContentGetOptions{Ref: c.branch})
	if err != nil {
		return nil, remoteError("read "+filePath, err)
	}
	if file == nil {
		return nil, fmt.Errorf("github: %s is a directory", filePath)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("github: decode %s: %w", filePath, err)
	}
	return []byte(content), nil
}

func isNotFound(err error) bool {
	var resp *gh.ErrorResponse
	return errors.As(err, &resp) && resp.Response != nil && resp.Response.StatusCode == http.StatusNotFound
}

func remoteError(op string, err error) error {
	var resp *gh.ErrorResponse
	if errors.As(err, &resp) && resp.Message != "" {
		return &RemoteError{Message: resp.Message, Err: err}
	}
	return &RemoteError{Message: fmt.Sprintf("github %s: %v", op, err), Err: err}
}
