package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrUnknownProvider   = goerr.New("unknown provider")
	ErrMissingCredential = goerr.New("credential is required")
	ErrDuplicateID       = goerr.New("duplicate content ID")
	ErrMissingID         = goerr.New("content ID is required")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	ProviderKey    = "provider"
	BackendKey     = "backend"
	ContentTypeKey = "content_type"
	ContentIDKey   = "content_id"
	IndexKey       = "index"
)
