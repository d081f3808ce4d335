package project

type CreatedEvent struct {
	Result *Project
}

type UpdatedEvent struct {
	Result *Project
}

type StageChangedEvent struct {
	From   Stage
	To     Stage
	Result *Project
}

type DeletedEvent struct {
	Result *Project
}
