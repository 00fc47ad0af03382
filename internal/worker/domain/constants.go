package domain

// Job status values touched by the maintenance triggers
const (
	JobStatusActive  = "active"
	JobStatusExpired = "expired"
)

// Names of the scheduled maintenance triggers, used in logs
const (
	TriggerExpireJobs           = "expire-jobs"
	TriggerCleanupNotifications = "cleanup-notifications"
)
