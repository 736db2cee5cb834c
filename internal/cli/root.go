package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"timemaster/internal/adapter/http/mapper"
	"timemaster/internal/core/domain"
	"timemaster/internal/core/ports"
)

// NewRootCommand builds the taskctl command tree over the given engine.
func NewRootCommand(taskService ports.TaskService) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskctl",
		Short: "Manage personal tasks from the terminal",
		Long: `taskctl runs task lifecycle commands against the configured store.

Examples:
  taskctl create --name "Read" --kind cycle --target 3 --repeat daily
  taskctl progress 2b1c...
  taskctl list --status completed`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newListCommand(taskService),
		newShowCommand(taskService),
		newCreateCommand(taskService),
		newEditCommand(taskService),
		newLifecycleCommand("progress", "Increase progress by one step", taskService.IncreaseTaskProgress),
		newLifecycleCommand("archive", "Archive a task", taskService.ArchiveTask),
		newLifecycleCommand("reopen", "Reopen an archived task", taskService.ReopenTask),
		newDeleteCommand(taskService),
	)

	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func printTask(cmd *cobra.Command, task domain.Task) error {
	return printJSON(cmd.OutOrStdout(), mapper.ToTaskItem(task))
}
