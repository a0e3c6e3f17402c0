package shared

// Asynq task types and queue names.
const (
	TypeExportReviews      = "review:export"
	TypeDeleteStaleExports = "review:export:purge"

	QueueDefault = "default"
	QueueLow     = "low"
)
