// Package main provides the TaskFlow API server.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/pepperonas/taskflow-platform/pkg/cmd"
	"github.com/pepperonas/taskflow-platform/pkg/database"
	"github.com/pepperonas/taskflow-platform/pkg/eventbus"
	"github.com/pepperonas/taskflow-platform/pkg/executors/code"
	"github.com/pepperonas/taskflow-platform/pkg/mailer"
	"github.com/pepperonas/taskflow-platform/pkg/persistence"
	"github.com/pepperonas/taskflow-platform/pkg/persistence/postgresql"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/queue"
	"github.com/pepperonas/taskflow-platform/pkg/scheduler"
	"github.com/pepperonas/taskflow-platform/pkg/services"
	"github.com/pepperonas/taskflow-platform/pkg/web"
	"github.com/pepperonas/taskflow-platform/pkg/workflow"
)

type Config struct {
	Port            int
	SMTP            mailer.Config
	Redis           queue.Config
	EnableScheduler bool
	EnableQueue     bool
}

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	config      Config
	validate    *validator.Validate

	scheduler *scheduler.Scheduler
	consumer  *queue.Consumer
}

func NewAPI(
	logger *slog.Logger,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	config Config,
) *API {
	return &API{
		logger:      logger,
		persistence: p,
		eventBus:    eventBus,
		tracer:      tracer,
		config:      config,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() (*fiber.App, *workflow.Engine, error) {
	var publisher eventbus.EventPublisher
	if a.eventBus != nil {
		publisher = a.eventBus
	}

	taskService := services.NewTask(a.logger, a.persistence, a.validate, publisher)

	workflowService, err := services.NewWorkflow(a.persistence)
	if err != nil {
		return nil, nil, err
	}

	var queryer protocol.QueryExecutor
	if db := a.sqlDB(); db != nil {
		queryer = database.NewQueryer(a.logger, db)
	}

	var mail protocol.MailSender
	if a.config.SMTP.Host != "" {
		mail = mailer.NewMailer(a.logger, a.config.SMTP)
	}

	registry := cmd.NewRegistry(a.logger, cmd.Collaborators{
		Tasks:    taskService,
		Query:    queryer,
		Mail:     mail,
		MailFrom: a.config.SMTP.DefaultFrom,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	})

	engine := workflow.NewEngine(a.logger, a.persistence, a.persistence, registry, publisher, a.tracer)

	handlers := web.NewAPIHandlers(
		workflowService,
		taskService,
		a.persistence,
		engine,
		code.NewExecutor(a.logger),
		a.validate,
		registry,
	)

	return web.NewApp(handlers), engine, nil
}

// sqlDB exposes the raw connection when the backend is PostgreSQL; the file
// store has none and the database node then reports a soft error.
func (a *API) sqlDB() *sql.DB {
	if pg, ok := a.persistence.(*postgresql.Persistence); ok {
		return pg.DB()
	}

	return nil
}

func (a *API) Start(ctx context.Context) error {
	app, engine, err := a.App()
	if err != nil {
		return err
	}

	if a.config.EnableScheduler {
		a.scheduler = scheduler.NewScheduler(a.logger, a.persistence, engine)
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
	}

	if a.config.EnableQueue {
		a.consumer, err = queue.NewConsumer(ctx, a.logger, a.config.Redis, engine)
		if err != nil {
			return err
		}

		a.consumer.Start(ctx)
	}

	return app.Listen(":" + strconv.Itoa(a.config.Port))
}

func (a *API) Stop(ctx context.Context) {
	if a.scheduler != nil {
		_ = a.scheduler.Stop(ctx)
	}

	if a.consumer != nil {
		_ = a.consumer.Stop(ctx)
	}
}
