package main

import (
	"log/slog"

	"github.com/FACorreiaa/pocketledger/internal/api"
	"github.com/FACorreiaa/pocketledger/internal/domain/budget"
	"github.com/FACorreiaa/pocketledger/internal/domain/categorization"
	"github.com/FACorreiaa/pocketledger/internal/domain/category"
	"github.com/FACorreiaa/pocketledger/internal/domain/expense"
	"github.com/FACorreiaa/pocketledger/internal/domain/export"
	importhandler "github.com/FACorreiaa/pocketledger/internal/domain/import/handler"
	importservice "github.com/FACorreiaa/pocketledger/internal/domain/import/service"
	"github.com/FACorreiaa/pocketledger/internal/domain/recurring"
	"github.com/FACorreiaa/pocketledger/internal/notify"
	"github.com/FACorreiaa/pocketledger/pkg/config"
	"github.com/FACorreiaa/pocketledger/pkg/cron"
	"github.com/FACorreiaa/pocketledger/pkg/db"
)

// Dependencies holds the wired application graph.
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Services
	CategoryService       *category.Service
	ExpenseService        *expense.Service
	BudgetService         *budget.Service
	RecurringService      *recurring.Service
	ImportService         *importservice.ImportService
	ExportService         *export.Service
	CategorizationService *categorization.Service
	Notifier              *notify.Notifier
	Scheduler             *cron.Scheduler

	// HTTP
	Handlers api.Handlers
}

func buildDependencies(cfg *config.Config, database *db.DB, logger *slog.Logger) *Dependencies {
	pool := database.Pool

	categoryRepo := category.NewRepository(pool)
	expenseRepo := expense.NewRepository(pool)
	budgetRepo := budget.NewRepository(pool)
	recurringRepo := recurring.NewRepository(pool)
	jobRepo := importservice.NewJobRepository(pool)
	rulesRepo := categorization.NewRepository(pool)

	categoryService := category.NewService(categoryRepo, logger)
	expenseService := expense.NewService(expenseRepo, logger)
	budgetService := budget.NewService(budgetRepo, expenseRepo, logger)
	recurringService := recurring.NewService(recurringRepo, expenseService, logger)
	categorizationService := categorization.NewService(rulesRepo, logger)
	importService := importservice.NewImportService(
		categoryRepo, expenseService, jobRepo, categorizationService, cfg.Import.MaxRows, logger)
	exportService := export.NewService(expenseService)

	notifier := notify.New(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.AlertRecipient, logger)
	scheduler := cron.NewScheduler(recurringService, budgetService, notifier, logger)

	return &Dependencies{
		Config: cfg,
		DB:     database,
		Logger: logger,

		CategoryService:       categoryService,
		ExpenseService:        expenseService,
		BudgetService:         budgetService,
		RecurringService:      recurringService,
		ImportService:         importService,
		ExportService:         exportService,
		CategorizationService: categorizationService,
		Notifier:              notifier,
		Scheduler:             scheduler,

		Handlers: api.Handlers{
			Categories:     category.NewHandler(categoryService),
			Expenses:       expense.NewHandler(expenseService),
			Budgets:        budget.NewHandler(budgetService),
			Recurring:      recurring.NewHandler(recurringService),
			Import:         importhandler.NewImportHandler(importService, cfg.Import.MaxFileBytes),
			Export:         export.NewHandler(exportService),
			Categorization: categorization.NewHandler(categorizationService),
		},
	}
}
