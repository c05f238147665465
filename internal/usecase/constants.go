package usecase

import "time"

const (
	// DefaultProjectionMonths is used when a projection request omits the length.
	DefaultProjectionMonths = 12

	// MaxProjectionMonths caps the projection explorer (50 years).
	MaxProjectionMonths = 600

	// DashboardProjectionMonths is the length of the dashboard's monthly projection.
	DashboardProjectionMonths = 12

	// DefaultCacheTTL is how long computed dashboards are cached when WithCache gets no TTL.
	DefaultCacheTTL = 5 * time.Minute
)
