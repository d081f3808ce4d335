package role

// Role is the closed enumeration of job functions. It gates visible
// navigation; write permissions are carried separately on the user.
type Role string

const (
	Unknown              Role = ""
	Admin                Role = "Admin"
	PreSales             Role = "PreSales"
	SalesManager         Role = "SalesManager"
	Designer             Role = "Designer"
	DesignManager        Role = "DesignManager"
	ProductionOpsManager Role = "ProductionOpsManager"
	Technician           Role = "Technician"
	Accountant           Role = "Accountant"
	SeniorAccountant     Role = "SeniorAccountant"
	CharteredAccountant  Role = "CharteredAccountant"
	Founder              Role = "Founder"
)

// Legacy role names kept from earlier releases. Stored sessions may still
// carry them, so Parse folds them into the current enumeration.
var legacy = map[string]Role{
	"Manager":        SalesManager,
	"HybridDesigner": Designer,
	"OperationsLead": ProductionOpsManager,
	"Trainee":        PreSales,
}

var all = []Role{
	Admin,
	PreSales,
	SalesManager,
	Designer,
	DesignManager,
	ProductionOpsManager,
	Technician,
	Accountant,
	SeniorAccountant,
	CharteredAccountant,
	Founder,
}

// Parse maps a stored role string onto the enumeration. Unmapped strings
// yield Unknown; Parse never fails.
func Parse(s string) Role {
	r := Role(s)
	for _, known := range all {
		if r == known {
			return known
		}
	}
	if mapped, ok := legacy[s]; ok {
		return mapped
	}
	return Unknown
}

// All returns the current enumeration, excluding Unknown and legacy aliases.
func All() []Role {
	out := make([]Role, len(all))
	copy(out, all)
	return out
}

func (r Role) Valid() bool {
	for _, known := range all {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
