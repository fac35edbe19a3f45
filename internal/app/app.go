package app

import (
	"context"
	"time"

	"msp/config"
	"msp/internal/database"
	"msp/internal/handlers/middleware"
	"msp/internal/jobs"
	"msp/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Cache      *database.Cache
	Middleware middleware.Middleware
	Config     config.Config

	// Adapters
	Storage  services.StorageService
	Ledger   services.LedgerService
	Progress services.ProgressStore

	// Services
	LoanService      *services.LoanService
	ContactService   *services.ContactService
	EMIService       *services.EMIService
	EmailService     *services.EmailService
	SchedulerService *services.SchedulerService
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	cache, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create cache", err)
	}

	// Progress lives in valkey when a cache is configured so records survive
	// restarts; otherwise it falls back to an in-process store.
	var progress services.ProgressStore
	if cache != nil {
		progress = services.NewValkeyProgressStore(cache.Progress)
	} else {
		progress = services.NewMemoryProgressStore()
	}

	compress := services.NewCompressService()
	storage, err := services.NewDriveService(config, compress)
	if err != nil {
		return &App{}, log.Err("failed to create drive service", err)
	}

	ledger, err := services.NewSheetsService(config)
	if err != nil {
		return &App{}, log.Err("failed to create sheets service", err)
	}

	sender, err := newEmailSender(config)
	if err != nil {
		return &App{}, log.Err("failed to create email sender", err)
	}
	emailService, err := services.NewEmailService(config, sender)
	if err != nil {
		return &App{}, log.Err("failed to create email service", err)
	}

	foldersService := services.NewFoldersService(storage)
	loanService := services.NewLoanService(
		config,
		foldersService,
		storage,
		ledger,
		emailService,
		progress,
	)
	contactService := services.NewContactService(ledger, emailService)
	emiService := services.NewEMIService()
	schedulerService := services.NewSchedulerService()

	if config.SchedulerEnabled {
		maxIdle := time.Duration(config.ProgressTTLHours) * time.Hour
		cleanupJob := jobs.NewProgressCleanupJob(
			services.NewProgressCleanupService(progress, maxIdle),
			services.Hourly,
		)
		if err := schedulerService.AddJob(cleanupJob); err != nil {
			return &App{}, log.Err("failed to register progress cleanup job", err)
		}
		log.Info("Registered progress cleanup job with scheduler")
	}

	app := &App{
		Cache:            cache,
		Config:           config,
		Middleware:       middleware.New(config),
		Storage:          storage,
		Ledger:           ledger,
		Progress:         progress,
		LoanService:      loanService,
		ContactService:   contactService,
		EMIService:       emiService,
		EmailService:     emailService,
		SchedulerService: schedulerService,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func newEmailSender(config config.Config) (services.EmailSender, error) {
	switch config.EmailProvider {
	case "ses":
		return services.NewSESSender(context.Background(), config.SESRegion)
	default:
		return services.NewResendSender(config.ResendAPIKey), nil
	}
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Storage,
		a.Ledger,
		a.Progress,
		a.LoanService,
		a.ContactService,
		a.EMIService,
		a.EmailService,
		a.SchedulerService,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Cache != nil {
		a.Cache.Close()
	}

	return err
}
