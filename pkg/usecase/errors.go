package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	ErrEmptyText   = goerr.New("analysis text is empty")
	ErrTextTooLong = goerr.New("analysis text exceeds the maximum length")
)
