package permissions

// Permission names carried on the session as a string set
// ("<module>.<resource>.<action>"). The server is the authority; the client
// only uses these to decide which action buttons to render.
const (
	UserRead   = "core.users.read"
	UserCreate = "core.users.create"
	UserUpdate = "core.users.update"
	UserDelete = "core.users.delete"

	LeadRead   = "crm.leads.read"
	LeadCreate = "crm.leads.create"
	LeadUpdate = "crm.leads.update"
	LeadDelete = "crm.leads.delete"

	ProjectRead   = "project.projects.read"
	ProjectCreate = "project.projects.create"
	ProjectUpdate = "project.projects.update"
	ProjectDelete = "project.projects.delete"

	FinanceRead     = "finance.books.read"
	FinanceWrite    = "finance.books.write"
	FinanceClose    = "finance.books.close"
	FinanceOverride = "finance.locks.override"

	RequestRead   = "services.requests.read"
	RequestCreate = "services.requests.create"
	RequestUpdate = "services.requests.update"

	NotificationRead = "notification.messages.read"
)

// All is used by the seeder to grant the full set to Admin users.
var All = []string{
	UserRead, UserCreate, UserUpdate, UserDelete,
	LeadRead, LeadCreate, LeadUpdate, LeadDelete,
	ProjectRead, ProjectCreate, ProjectUpdate, ProjectDelete,
	FinanceRead, FinanceWrite, FinanceClose, FinanceOverride,
	RequestRead, RequestCreate, RequestUpdate,
	NotificationRead,
}
