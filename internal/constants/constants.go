package constants

import "time"

// API defaults.
const (
	// DefaultAPIVersion is the REST namespace used when none is configured.
	DefaultAPIVersion = "v2"

	// AuthTokenEnv names the environment variable holding the process-wide
	// default bearer token.
	AuthTokenEnv = "HKB_AUTH_TOKEN"

	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "hkgo"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryWaitMin is the minimum wait between retries when retries
	// are enabled.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Header names used by the hkbase protocol.
const (
	// HeaderTransactionID carries a client-side transaction id.
	HeaderTransactionID = "transaction-id"

	// HeaderContextParent attaches a parent context to an RDF import.
	HeaderContextParent = "context-parent"
)

// Content types.
const (
	ContentTypeJSON      = "application/json"
	ContentTypePlainText = "text/plain"

	// RDF mimetypes accepted by the import endpoint.
	ContentTypeTurtle   = "text/turtle"
	ContentTypeRDFXML   = "application/rdf+xml"
	ContentTypeNTriples = "application/n-triples"
	ContentTypeTrig     = "application/trig"
	ContentTypeJSONLD   = "application/ld+json"
)

// Observer settings.
const (
	// DefaultPollInterval is the REST observer polling period.
	DefaultPollInterval = 2 * time.Second

	// ObserverSubjectPrefix is the NATS subject prefix for repository
	// notifications; the repository name is appended as the last token.
	ObserverSubjectPrefix = "hkbase.observer"

	// NotificationBuffer is the observer delivery channel capacity.
	NotificationBuffer = 100
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)
