package finance

import (
	"github.com/arkiflo/arkiflo/modules/finance/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/finance/presentation/controllers"
	"github.com/arkiflo/arkiflo/modules/finance/services"
	"github.com/arkiflo/arkiflo/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	cashbookRepo := persistence.NewCashbookRepository()
	invoiceRepo := persistence.NewInvoiceRepository()
	budgetRepo := persistence.NewBudgetRepository()
	expenseRepo := persistence.NewExpenseRepository()

	app.RegisterServices(
		services.NewCashbookService(cashbookRepo, app.EventPublisher()),
		services.NewInvoiceService(invoiceRepo, app.EventPublisher()),
		services.NewBudgetService(budgetRepo),
		services.NewExpenseService(expenseRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewCashbookController(app),
		controllers.NewInvoicesController(app),
		controllers.NewBudgetsController(app),
		controllers.NewExpensesController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "finance"
}
