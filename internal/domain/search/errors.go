package search

import "errors"

var (
	// ErrDependency marks failures of the recommendation collaborator
	ErrDependency = errors.New("recommendation service unavailable")

	// failure classes joined to ErrDependency
	ErrNotConfigured = errors.New("recommender not configured")
	ErrTimeout       = errors.New("recommender timed out")
)
