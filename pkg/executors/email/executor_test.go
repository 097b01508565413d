package email

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/testutil"
)

type fakeMailer struct {
	err error

	to      string
	subject string
	body    string
	from    string
	sent    int
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody, from string) error {
	if f.err != nil {
		return f.err
	}

	f.to = to
	f.subject = subject
	f.body = htmlBody
	f.from = from
	f.sent++

	return nil
}

func newExecutorWith(mailer *fakeMailer) *Executor {
	return NewExecutor(slog.New(slog.NewTextHandler(os.Stdout, nil)), mailer, "noreply@taskflow.local")
}

func emailNode(config map[string]any) *models.WorkflowNode {
	return testutil.CreateTestNode(testutil.WithType("email"), testutil.WithConfig(config))
}

func TestExecute_SendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	ectx := models.NewExecutionContext(map[string]any{"name": "Alice"})

	result, err := newExecutorWith(mailer).Execute(context.Background(),
		emailNode(map[string]any{
			"to":      "alice@example.com",
			"subject": "Hi {{name}}",
			"body":    "<p>Hello {{name}}</p>",
		}), ectx)
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, true, m["sent"])
	assert.Equal(t, "alice@example.com", m["to"])
	assert.Equal(t, "Hi Alice", m["subject"])

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "<p>Hello Alice</p>", mailer.body)
	assert.Equal(t, "noreply@taskflow.local", mailer.from)
	assert.Contains(t, ectx.ExecutionLog(), "Email sent successfully to: alice@example.com")
}

func TestExecute_DefaultSubject(t *testing.T) {
	mailer := &fakeMailer{}

	_, err := newExecutorWith(mailer).Execute(context.Background(),
		emailNode(map[string]any{"to": "bob@example.com"}),
		models.NewExecutionContext(nil))
	require.NoError(t, err)

	assert.Equal(t, "Notification from TaskFlow", mailer.subject)
}

func TestExecute_MissingRecipientIsSoftError(t *testing.T) {
	result, err := newExecutorWith(&fakeMailer{}).Execute(context.Background(),
		emailNode(map[string]any{"subject": "no one home"}),
		models.NewExecutionContext(nil))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sent": false, "error": "No recipient specified"}, result)
}

func TestExecute_SendFailureIsSoftError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp unreachable")}
	ectx := models.NewExecutionContext(nil)

	result, err := newExecutorWith(mailer).Execute(context.Background(),
		emailNode(map[string]any{"to": "alice@example.com"}), ectx)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sent": false, "error": "smtp unreachable"}, result)
	assert.Contains(t, ectx.ExecutionLog(), "ERROR: Failed to send email - smtp unreachable")
}

func TestExecute_NoMailerConfigured(t *testing.T) {
	executor := NewExecutor(slog.New(slog.NewTextHandler(os.Stdout, nil)), nil, "")

	result, err := executor.Execute(context.Background(),
		emailNode(map[string]any{"to": "alice@example.com"}),
		models.NewExecutionContext(nil))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sent": false, "error": "No mail sender configured"}, result)
}
