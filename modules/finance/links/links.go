package links

import "github.com/arkiflo/arkiflo/pkg/types"

var (
	OverviewLink         = types.NavigationItem{Name: "Overview", Href: "/finance"}
	ProjectFinanceLink   = types.NavigationItem{Name: "Project Finance", Href: "/finance/projects"}
	CashBookLink         = types.NavigationItem{Name: "Cash Book", Href: "/finance/cashbook"}
	LiabilitiesLink      = types.NavigationItem{Name: "Liabilities", Href: "/finance/liabilities"}
	ExpenseRequestsLink  = types.NavigationItem{Name: "Expense Requests", Href: "/finance/expense-requests"}
	ReceiptsLink         = types.NavigationItem{Name: "Receipts", Href: "/finance/receipts"}
	SalariesLink         = types.NavigationItem{Name: "Salaries", Href: "/finance/salaries"}
	PnLSnapshotLink      = types.NavigationItem{Name: "P&L Snapshot", Href: "/finance/pnl"}
	FinanceReportsLink   = types.NavigationItem{Name: "Reports", Href: "/finance/reports"}
	ForecastLink         = types.NavigationItem{Name: "Forecast", Href: "/finance/forecast"}
	BudgetsLink          = types.NavigationItem{Name: "Budgets", Href: "/finance/budgets"}
	InvoicesLink         = types.NavigationItem{Name: "Invoices", Href: "/finance/invoices"}
	RefundsLink          = types.NavigationItem{Name: "Refunds", Href: "/finance/refunds"}
	PaymentRemindersLink = types.NavigationItem{Name: "Payment Reminders", Href: "/finance/payment-reminders"}
	RecurringLink        = types.NavigationItem{Name: "Recurring", Href: "/finance/recurring"}
	DailyClosingLink     = types.NavigationItem{Name: "Daily Closing", Href: "/finance/daily-closing"}
	MonthlySnapshotLink  = types.NavigationItem{Name: "Monthly Snapshot", Href: "/finance/monthly-snapshot"}
	FinanceSettingsLink  = types.NavigationItem{Name: "Settings", Href: "/finance/settings"}
)

// FinanceLink is the collapsible Finance section with the full child set.
var FinanceLink = types.NavigationItem{
	Name: "Finance",
	Icon: "coins",
	Href: "/finance",
	Children: []types.NavigationItem{
		OverviewLink,
		ProjectFinanceLink,
		CashBookLink,
		LiabilitiesLink,
		ExpenseRequestsLink,
		ReceiptsLink,
		SalariesLink,
		PnLSnapshotLink,
		FinanceReportsLink,
		ForecastLink,
		BudgetsLink,
		InvoicesLink,
		RefundsLink,
		PaymentRemindersLink,
		RecurringLink,
		DailyClosingLink,
		MonthlySnapshotLink,
		FinanceSettingsLink,
	},
}

// CharteredFinanceLink is the audit-facing Finance section. Its children are
// an enumerated read-oriented list maintained on their own, not a filter over
// FinanceLink: audit access reviews sign off on this exact set.
var CharteredFinanceLink = types.NavigationItem{
	Name: "Finance",
	Icon: "coins",
	Href: "/finance",
	Children: []types.NavigationItem{
		OverviewLink,
		ProjectFinanceLink,
		CashBookLink,
		LiabilitiesLink,
		ReceiptsLink,
		PnLSnapshotLink,
		FinanceReportsLink,
		InvoicesLink,
		MonthlySnapshotLink,
	},
}
