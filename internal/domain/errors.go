package domain

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant id or code resolves to nothing
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantCodeExists is returned when creating a tenant with a code that is already taken
	ErrTenantCodeExists = errors.New("tenant code already exists")

	// ErrConfigNotFound is returned when a tenant has no configuration row
	ErrConfigNotFound = errors.New("tenant config not found")

	// ErrArticleNotFound is returned when an article id resolves to nothing
	ErrArticleNotFound = errors.New("article not found")

	// ErrTenantRequired is returned when an operation needs a resolved tenant and none is available
	ErrTenantRequired = errors.New("tenant id is required")

	// ErrInvalidWeight is returned when an article weight is zero or negative
	ErrInvalidWeight = errors.New("weight must be positive")

	// ErrInvalidCron is returned when a cron expression does not parse
	ErrInvalidCron = errors.New("invalid cron expression")
)
