package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidLogLevel  = goerr.New("invalid log level")
	ErrInvalidLogFormat = goerr.New("invalid log format")
	ErrInvalidPattern   = goerr.New("invalid catalog pattern")
	ErrInvalidCatalog   = goerr.New("invalid scoring catalog")
)
