package app

import (
	"context"

	"kirayo/config"
	"kirayo/internal/controllers"
	"kirayo/internal/database"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/jobs"
	"kirayo/internal/logger"
	"kirayo/internal/repositories"
	"kirayo/internal/services"
	"kirayo/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	Config     config.Config

	TransactionService *services.TransactionService
	SchedulerService   *services.SchedulerService
	TokenService       *services.TokenService
	UploadService      *services.UploadService

	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repos := repositories.New(db)
	websocket := websockets.New()

	svcs, err := services.New(db, config, repos, websocket)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	middleware := middleware.New(db, config, repos, svcs.Token)
	ctrls := controllers.New(svcs, repos, config)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(svcs.Scheduler, svcs, repos); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
	}

	app := &App{
		Database:           db,
		Middleware:         middleware,
		Websocket:          websocket,
		Config:             config,
		TransactionService: svcs.Transaction,
		SchedulerService:   svcs.Scheduler,
		TokenService:       svcs.Token,
		UploadService:      svcs.Upload,
		Repos:              repos,
		Controllers:        ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) StartScheduler(ctx context.Context) error {
	if !a.Config.SchedulerEnabled {
		return nil
	}
	return a.SchedulerService.Start(ctx)
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.TransactionService,
		a.SchedulerService,
		a.TokenService,
		a.UploadService,
		a.Repos.User,
		a.Repos.Booking,
		a.Controllers.Auth,
		a.Controllers.Booking,
		a.Controllers.Payment,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
