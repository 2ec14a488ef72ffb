// Package client implements the hk.Client and hk.RepositoryClient
// interfaces against the hkbase REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/valescamoura/hkgo/internal/auth"
	"github.com/valescamoura/hkgo/internal/constants"
	"github.com/valescamoura/hkgo/internal/http"
	"github.com/valescamoura/hkgo/pkg/hk"
)

// Client implements hk.Client.
type Client struct {
	httpClient     *http.Client
	config         *hk.Config
	repositoryPath string
	observerPath   string
}

// New creates a base client from config. The URL must already be normalized;
// hkclient.New is the public entry point.
func New(config *hk.Config) (*Client, error) {
	if config == nil {
		return nil, hk.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, hk.ErrURLRequired
	}

	version := config.APIVersion
	if version == "" {
		version = constants.DefaultAPIVersion
	}

	tokenManager := auth.NewStaticTokenManager(auth.ResolveToken(config.AuthToken))
	httpClient := http.NewClient(config.URL, tokenManager, httpOptions(config)...)

	return &Client{
		httpClient:     httpClient,
		config:         config,
		repositoryPath: "/" + version + "/repository",
		observerPath:   "/" + version + "/observer",
	}, nil
}

func httpOptions(config *hk.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.SkipTLSVerify {
		opts = append(opts, http.WithSkipTLSVerify(true))
	}

	if config.RetryMax > 0 {
		waitMin := constants.DefaultRetryWaitMin
		waitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			waitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			waitMax = config.RetryWaitMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return opts
}

// ListRepositories implements hk.Client.ListRepositories.
func (c *Client) ListRepositories(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.Get(ctx, c.repositoryPath, nil)
	if err != nil {
		return nil, wrapErr(err, "could not retrieve existing repositories")
	}

	var names []string
	if err := json.Unmarshal(resp.Body, &names); err != nil {
		return nil, wrapErr(err, "could not retrieve existing repositories")
	}

	return names, nil
}

// ConnectRepository implements hk.Client.ConnectRepository.
func (c *Client) ConnectRepository(ctx context.Context, name string) (hk.RepositoryClient, error) {
	names, err := c.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(names, name) {
		return nil, &hk.ClientError{
			Message: fmt.Sprintf("repository %q", name),
			Err:     hk.ErrRepositoryNotConnected,
		}
	}

	return c.newRepository(name), nil
}

// CreateRepository implements hk.Client.CreateRepository.
func (c *Client) CreateRepository(ctx context.Context, name string) (hk.RepositoryClient, error) {
	_, err := c.httpClient.Put(ctx, c.repositoryPath+"/"+name+"/", nil)
	if err != nil {
		return nil, wrapErr(err, "repository not created")
	}

	return c.newRepository(name), nil
}

// DeleteRepository implements hk.Client.DeleteRepository.
func (c *Client) DeleteRepository(ctx context.Context, name string) error {
	_, err := c.httpClient.Delete(ctx, c.repositoryPath+"/"+name+"/", nil)
	if err != nil {
		return wrapErr(err, "repository not deleted")
	}

	return nil
}

// DeleteCreateRepository implements hk.Client.DeleteCreateRepository. When
// the server rejects the create, the repository is deleted and created
// again, destroying its contents. Preserved as documented: a create that
// fails because the repository already exists silently recreates it.
func (c *Client) DeleteCreateRepository(ctx context.Context, name string) (hk.RepositoryClient, error) {
	repo, err := c.CreateRepository(ctx, name)
	if err == nil {
		return repo, nil
	}

	apiErr := &hk.APIError{}
	if !errors.As(err, &apiErr) {
		return nil, &hk.ClientError{Message: "repository not deleted or created", Err: err}
	}

	if err := c.DeleteRepository(ctx, name); err != nil {
		return nil, err
	}

	return c.CreateRepository(ctx, name)
}

// GetRepositories implements hk.Client.GetRepositories.
func (c *Client) GetRepositories(ctx context.Context) ([]hk.RepositoryClient, error) {
	names, err := c.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}

	repos := make([]hk.RepositoryClient, 0, len(names))
	for _, name := range names {
		repos = append(repos, c.newRepository(name))
	}

	return repos, nil
}

// Observer implements hk.Client.Observer.
func (c *Client) Observer(repository string, config *hk.ObserverConfig) (hk.ObserverClient, error) {
	if config == nil {
		config = &hk.ObserverConfig{}
	}

	switch config.Type {
	case hk.ObserverTypeRest, "":
		return newRestObserver(c.httpClient, c.observerPath, repository, config), nil
	case hk.ObserverTypeNATS:
		if config.NATS == nil || config.NATS.URL == "" {
			return nil, hk.ErrNATSConfigRequired
		}

		return newNATSObserver(repository, config.NATS), nil
	default:
		return nil, fmt.Errorf("%w: %q", hk.ErrUnsupportedObserver, config.Type)
	}
}

// wrapErr applies the two-tier error policy: server-reported errors and
// already-wrapped client errors pass through unchanged, anything else is
// wrapped with its cause retained.
func wrapErr(err error, message string) error {
	apiErr := &hk.APIError{}
	if errors.As(err, &apiErr) {
		return err
	}

	clientErr := &hk.ClientError{}
	if errors.As(err, &clientErr) {
		return err
	}

	return &hk.ClientError{Message: message, Err: err}
}
