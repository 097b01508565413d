// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"log/slog"

	"github.com/pepperonas/taskflow-platform/pkg/executors/code"
	"github.com/pepperonas/taskflow-platform/pkg/executors/condition"
	"github.com/pepperonas/taskflow-platform/pkg/executors/createtask"
	"github.com/pepperonas/taskflow-platform/pkg/executors/database"
	"github.com/pepperonas/taskflow-platform/pkg/executors/delay"
	"github.com/pepperonas/taskflow-platform/pkg/executors/email"
	"github.com/pepperonas/taskflow-platform/pkg/executors/httprequest"
	"github.com/pepperonas/taskflow-platform/pkg/executors/updatetask"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/registry"
)

// Collaborators bundles everything the native executors depend on. Nil
// members are allowed; the affected executor then reports a soft error at
// node run time instead of failing startup.
type Collaborators struct {
	Tasks    protocol.TaskService
	Query    protocol.QueryExecutor
	Mail     protocol.MailSender
	MailFrom string
	HTTP     protocol.HTTPDoer
}

// NewRegistry builds the executor registry with every native node type
// registered.
func NewRegistry(logger *slog.Logger, c Collaborators) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.Register(condition.NewExecutor(logger))
	reg.Register(code.NewExecutor(logger))
	reg.Register(createtask.NewExecutor(c.Tasks))
	reg.Register(updatetask.NewExecutor(c.Tasks))
	reg.Register(delay.NewExecutor())
	reg.Register(database.NewExecutor(logger, c.Query))
	reg.Register(email.NewExecutor(logger, c.Mail, c.MailFrom))
	reg.Register(httprequest.NewExecutor(logger, c.HTTP))

	return reg
}
