package domain

import "errors"

var (
	ErrContainerFull   = errors.New("container is at capacity")
	ErrNoSuchContainer = errors.New("no such container")
	ErrNotActive       = errors.New("refinement is not active")
)
