// Package hkclient provides the main entry point for creating hkbase clients.
package hkclient

import (
	"strings"

	"github.com/valescamoura/hkgo/internal/client"
	"github.com/valescamoura/hkgo/pkg/hk"
)

// New creates an hkbase client from config. The URL is normalized: a scheme
// is added when missing and trailing slashes are trimmed.
func New(config *hk.Config) (hk.Client, error) {
	if config == nil {
		return nil, hk.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, hk.ErrURLRequired
	}

	url := strings.TrimSuffix(config.URL, "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	config.URL = url

	return client.New(config)
}
