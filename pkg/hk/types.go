package hk

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"time"

	"github.com/valescamoura/hkgo/pkg/hklib"
)

// Config holds connection configuration for an hkbase instance.
type Config struct {
	// URL is the hkbase root URL, e.g. "https://hkbase.example.com".
	URL string

	// APIVersion selects the REST namespace. Defaults to "v2".
	APIVersion string

	// AuthToken is sent as a bearer token. When empty, the HKB_AUTH_TOKEN
	// environment variable is used.
	AuthToken string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Logger receives debug output when Debug is set. May be nil.
	Logger Logger

	// Debug enables request/response logging.
	Debug bool

	// SkipTLSVerify disables TLS certificate validation.
	SkipTLSVerify bool

	// HTTPTimeout bounds each request. Zero means the default timeout.
	HTTPTimeout time.Duration

	// RetryMax enables transport-level retries when greater than zero.
	// Retries are off by default.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Transaction groups client-side operations under an identifier. It carries
// no atomicity: the server receives the id as a header and nothing more.
type Transaction struct {
	ID         string
	Repository string
}

// ImportOptions control RepositoryClient.ImportData.
type ImportOptions struct {
	// AsHK treats the source as hkbase entity JSON and routes it through
	// AddEntities instead of the RDF endpoint.
	AsHK bool

	// Context attaches a parent context to the import. Accepts a context id
	// string or an *hklib.Context.
	Context any

	// Options are forwarded to the RDF endpoint as query parameters.
	Options url.Values
}

// Notification is a repository change event delivered to observers.
type Notification struct {
	Action     string          `json:"action"`
	ObjectType string          `json:"objectType"`
	Object     json.RawMessage `json:"object"`
}

// ObserverType selects the notification delivery backend.
type ObserverType string

const (
	// ObserverTypeRest polls the hkbase observer endpoint.
	ObserverTypeRest ObserverType = "rest"

	// ObserverTypeNATS subscribes to hkbase notification subjects on NATS.
	ObserverTypeNATS ObserverType = "nats"
)

// ObserverConfig configures an observer client.
type ObserverConfig struct {
	// Type is the delivery backend. Defaults to ObserverTypeRest.
	Type ObserverType

	// PollInterval is the REST polling period. Zero means the default.
	PollInterval time.Duration

	// NATS configures the NATS backend. Required for ObserverTypeNATS.
	NATS *NATSObserverConfig
}

// NATSObserverConfig configures the NATS observer backend.
type NATSObserverConfig struct {
	// URL of the NATS server, e.g. "nats://localhost:4222".
	URL string
}

// Client is the communication interface with an hkbase instance.
type Client interface {
	// ConnectRepository returns a client for an existing repository. It
	// fails with ErrRepositoryNotConnected when the repository is absent
	// from the server's listing.
	ConnectRepository(ctx context.Context, name string) (RepositoryClient, error)

	// CreateRepository creates a repository and returns a client for it.
	CreateRepository(ctx context.Context, name string) (RepositoryClient, error)

	// DeleteRepository deletes a repository.
	DeleteRepository(ctx context.Context, name string) error

	// DeleteCreateRepository creates a repository; when the server rejects
	// the create it deletes the repository and creates it again. A create
	// rejected because the repository already exists therefore destroys
	// its contents.
	DeleteCreateRepository(ctx context.Context, name string) (RepositoryClient, error)

	// ListRepositories returns the names of the repositories on the server.
	ListRepositories(ctx context.Context) ([]string, error)

	// GetRepositories returns a client for every repository on the server.
	GetRepositories(ctx context.Context) ([]RepositoryClient, error)

	// Observer returns a change-notification client for a repository.
	Observer(repository string, config *ObserverConfig) (ObserverClient, error)
}

// RepositoryClient is the communication interface with one repository.
type RepositoryClient interface {
	// Name returns the repository name.
	Name() string

	// CreateTransaction returns a transaction bound to this repository. An
	// empty id generates one.
	CreateTransaction(id string) *Transaction

	// AddEntities adds entities to the repository in a single call. Each
	// element must be an hklib.Entity or a map[string]any. The transaction
	// may be nil.
	AddEntities(ctx context.Context, tx *Transaction, entities ...any) error

	// GetEntities retrieves entities matching a filter: a string is sent as
	// plain text, a map[string]any as JSON. Any other filter type is a
	// caller error.
	GetEntities(ctx context.Context, filter any) ([]hklib.Entity, error)

	// DeleteEntities deletes entities by id. Each element must be an id
	// string or an hklib.Entity.
	DeleteEntities(ctx context.Context, tx *Transaction, ids ...any) error

	// UpdateEntities is equivalent to AddEntities; the server treats the
	// PUT as an idempotent upsert.
	UpdateEntities(ctx context.Context, tx *Transaction, entities ...any) error

	// ImportData imports the full contents of r. With opts.AsHK the data is
	// parsed as entity JSON and added; otherwise it is sent raw to the RDF
	// endpoint with datatype as its content type.
	ImportData(ctx context.Context, r io.Reader, datatype string, opts *ImportOptions) error

	// Clear deletes every entity in the repository. Two round trips with no
	// transactional guarantee between them.
	Clear(ctx context.Context) error

	// HyQL runs a HyQL query and returns the resulting entities.
	HyQL(ctx context.Context, query string) ([]hklib.Entity, error)
}

// ObserverClient delivers repository change notifications.
type ObserverClient interface {
	// Start registers the observer and begins delivery.
	Start(ctx context.Context) error

	// Notifications returns the delivery channel. It is closed by Stop.
	Notifications() <-chan Notification

	// Stop unregisters the observer and closes the channel.
	Stop() error
}
