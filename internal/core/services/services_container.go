package services

import (
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(txManager portsrepo.TransactionManager) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The category registry is shared by the ledger and every document service.
	container.Category = NewCategoryService(txManager)
	container.Ledger = NewLedgerService(txManager, container.Category)

	container.Reporting = NewReportingService(txManager)
	container.Order = NewOrderService(txManager, container.Ledger)
	container.Invoice = NewInvoiceService(txManager, container.Ledger)
	container.Quote = NewQuoteService(txManager, container.Ledger)

	return container
}
