package lead

type CreatedEvent struct {
	Result *Lead
}

type UpdatedEvent struct {
	Result *Lead
}

type StageChangedEvent struct {
	From   Stage
	To     Stage
	Result *Lead
}

type DeletedEvent struct {
	Result *Lead
}
