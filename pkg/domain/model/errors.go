package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across repository backends
var (
	ErrIncidentNotFound = goerr.New("incident not found")
)
