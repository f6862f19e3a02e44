package datasources

// DatasetRepository combines all persistence operations backed by the
// relational database.
type DatasetRepository interface {
	CardRepository
	ModerationRepository
	InteractionRepository
	NotificationRepository
	UserRoleGetter
}
