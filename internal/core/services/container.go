package services

import (
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service over one store with the same options.
func NewServiceContainer(store portsrepo.Store, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Transaction:   NewTransactionService(store, options...),
		Invoice:       NewInvoiceService(store, options...),
		Funding:       NewFundingService(store, options...),
		Category:      NewCategoryService(store, options...),
		RecurringBill: NewRecurringBillService(store, options...),
		Catalog:       NewCatalogService(store, options...),
		Shopping:      NewShoppingService(store, options...),
	}
}
