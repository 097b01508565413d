package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/pepperonas/taskflow-platform/pkg/cmd"
	"github.com/pepperonas/taskflow-platform/pkg/log"
	"github.com/pepperonas/taskflow-platform/pkg/mailer"
	"github.com/pepperonas/taskflow-platform/pkg/otelhelper"
	"github.com/pepperonas/taskflow-platform/pkg/queue"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 8080

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "taskflow-api",
		Usage:                 "Run the TaskFlow workflow engine API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (file://<dir> or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, or empty to disable)",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.BoolFlag{
				Name:    "scheduler",
				Usage:   "Run cron triggers for active workflows",
				Sources: cli.EnvVars("SCHEDULER_ENABLED"),
			},
			&cli.BoolFlag{
				Name:    "queue",
				Usage:   "Consume workflow trigger messages from Redis",
				Sources: cli.EnvVars("QUEUE_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for the trigger queue",
				Value:   "localhost:6379",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
			&cli.StringFlag{
				Name:    "smtp-host",
				Usage:   "SMTP host for the email node (empty disables mail)",
				Sources: cli.EnvVars("SMTP_HOST"),
			},
			&cli.IntFlag{
				Name:    "smtp-port",
				Usage:   "SMTP port",
				Value:   587,
				Sources: cli.EnvVars("SMTP_PORT"),
			},
			&cli.StringFlag{
				Name:    "smtp-username",
				Usage:   "SMTP username",
				Sources: cli.EnvVars("SMTP_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "smtp-password",
				Usage:   "SMTP password",
				Sources: cli.EnvVars("SMTP_PASSWORD"),
			},
			&cli.StringFlag{
				Name:    "smtp-from",
				Usage:   "Default sender address for the email node",
				Value:   "noreply@taskflow.local",
				Sources: cli.EnvVars("SMTP_FROM"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing TaskFlow API")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			if eventBus != nil {
				defer func() {
					if err := eventBus.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()
			}

			var tracer trace.Tracer
			if command.Bool("tracing") {
				tracer, err = otelhelper.NewTracer(ctx, "taskflow-api")
				if err != nil {
					return err
				}
			}

			api := NewAPI(logger, persistence, eventBus, tracer, Config{
				Port: command.Int("port"),
				SMTP: mailer.Config{
					Host:        command.String("smtp-host"),
					Port:        command.Int("smtp-port"),
					Username:    command.String("smtp-username"),
					Password:    command.String("smtp-password"),
					DefaultFrom: command.String("smtp-from"),
				},
				Redis: queue.Config{
					Addr:     command.String("redis-addr"),
					Password: command.String("redis-password"),
				},
				EnableScheduler: command.Bool("scheduler"),
				EnableQueue:     command.Bool("queue"),
			})

			defer api.Stop(ctx)

			return api.Start(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
