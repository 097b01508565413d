// Package email implements the node that sends mail through the mail sender
// collaborator.
package email

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/template"
)

const defaultSubject = "Notification from TaskFlow"

// Executor sends email nodes. Like the database executor, failures are soft:
// a {sent:false, error:…} result map, never a fatal error.
type Executor struct {
	logger      *slog.Logger
	mailer      protocol.MailSender
	defaultFrom string
}

func NewExecutor(logger *slog.Logger, mailer protocol.MailSender, defaultFrom string) *Executor {
	return &Executor{
		logger:      logger,
		mailer:      mailer,
		defaultFrom: defaultFrom,
	}
}

func (e *Executor) NodeType() string {
	return "email"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing Email node: " + node.ID)

	to := template.Resolve(node.ConfigString("to"), ectx)
	subject := template.Resolve(node.ConfigString("subject"), ectx)
	body := template.Resolve(node.ConfigString("body"), ectx)

	from := node.ConfigString("from")
	if from == "" {
		from = e.defaultFrom
	}

	if strings.TrimSpace(to) == "" {
		ectx.Log("WARNING: No recipient email address specified")

		return map[string]any{"sent": false, "error": "No recipient specified"}, nil
	}

	if subject == "" {
		subject = defaultSubject
	}

	if e.mailer == nil {
		ectx.Log("WARNING: No mail collaborator configured")

		return map[string]any{"sent": false, "error": "No mail sender configured"}, nil
	}

	if err := e.mailer.Send(ctx, to, subject, body, from); err != nil {
		e.logger.Error("Failed to send email", "to", to, "error", err)
		ectx.Log("ERROR: Failed to send email - " + err.Error())

		return map[string]any{"sent": false, "error": err.Error()}, nil
	}

	ectx.Log("Email sent successfully to: " + to)

	return map[string]any{
		"sent":    true,
		"to":      to,
		"subject": subject,
	}, nil
}
