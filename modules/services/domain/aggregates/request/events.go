package request

type CreatedEvent struct {
	Result *Request
}

type UpdatedEvent struct {
	Result *Request
}

type AssignedEvent struct {
	Result *Request
}

type StatusChangedEvent struct {
	From   Status
	To     Status
	Result *Request
}
