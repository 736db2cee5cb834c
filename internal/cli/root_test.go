package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timemaster/internal/adapter/http/dto"
	"timemaster/internal/adapter/memory"
	"timemaster/internal/app/service"
	"timemaster/internal/core/domain"
)

type harness struct {
	svc *service.TaskService
}

func newHarness() *harness {
	return &harness{svc: service.NewTaskService(memory.NewTaskRepository())}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(h.svc)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) task(t *testing.T, args ...string) dto.TaskItem {
	t.Helper()

	out, err := h.run(t, args...)
	require.NoError(t, err)

	var item dto.TaskItem
	require.NoError(t, json.Unmarshal([]byte(out), &item))
	return item
}

func TestCLI_CycleLifecycle(t *testing.T) {
	h := newHarness()

	created := h.task(t, "create", "--name", "Weekly report", "--kind", "cycle", "--target", "2", "--repeat", "weekly")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "active", created.Status)

	h.task(t, "progress", created.ID)
	completed := h.task(t, "progress", created.ID)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, 2, completed.Progress)

	archived := h.task(t, "archive", created.ID)
	assert.Equal(t, "archived", archived.Status)

	reopened := h.task(t, "reopen", created.ID)
	assert.Equal(t, "active", reopened.Status)
	assert.Equal(t, 0, reopened.Progress)

	shown := h.task(t, "show", created.ID)
	assert.Equal(t, reopened, shown)
}

func TestCLI_EditKeepsUnsetFields(t *testing.T) {
	h := newHarness()

	created := h.task(t, "create", "--name", "Learn Go", "--description", "book", "--kind", "long_term",
		"--target", "10", "--start", "2026-01-01", "--end", "2026-06-30")

	edited := h.task(t, "edit", created.ID, "--end", "2026-12-31", "--target", "12")
	assert.Equal(t, "Learn Go", edited.Name)
	assert.Equal(t, "book", edited.Description)
	assert.Equal(t, 12, edited.Target)
	require.NotNil(t, edited.StartDate)
	assert.Equal(t, "2026-01-01", *edited.StartDate)
	assert.Equal(t, "2026-12-31", *edited.EndDate)
}

func TestCLI_ListWithStatus(t *testing.T) {
	h := newHarness()

	done := h.task(t, "create", "--name", "Done", "--progress", "1")
	h.task(t, "create", "--name", "Open", "--target", "3")

	out, err := h.run(t, "list", "--status", "completed")
	require.NoError(t, err)

	var items []dto.TaskItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, done.ID, items[0].ID)

	_, err = h.run(t, "list", "--status", "done")
	require.Error(t, err)
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "create", "--kind", "once")
	require.Error(t, err)

	_, err = h.run(t, "create", "--name", "Read", "--kind", "long_term", "--start", "2026-01-01")
	require.ErrorIs(t, err, domain.ErrInvalidTask)

	_, err = h.run(t, "progress", "missing")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	created := h.task(t, "create", "--name", "Read")
	_, err = h.run(t, "reopen", created.ID)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestCLI_Delete(t *testing.T) {
	h := newHarness()
	created := h.task(t, "create", "--name", "Read")

	out, err := h.run(t, "delete", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)

	_, err = h.run(t, "show", created.ID)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCLI_EditHelpWarnsAboutLastWriteWins(t *testing.T) {
	out, err := newHarness().run(t, "edit", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "last write wins")
}
