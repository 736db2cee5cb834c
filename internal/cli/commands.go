package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"timemaster/internal/adapter/http/mapper"
	"timemaster/internal/adapter/http/validation"
	"timemaster/internal/core/domain"
	"timemaster/internal/core/ports"
)

type scheduleFlags struct {
	repeat string
	start  string
	end    string
}

func (f *scheduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.repeat, "repeat", "", "repeat rule for cycle tasks: daily, weekly or monthly")
	cmd.Flags().StringVar(&f.start, "start", "", "start date for long_term tasks (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date for long_term tasks (YYYY-MM-DD)")
}

func (f *scheduleFlags) repeatRule() *domain.RepeatRule {
	if f.repeat == "" {
		return nil
	}
	rule := domain.RepeatRule(f.repeat)
	return &rule
}

func (f *scheduleFlags) dateRange() (*domain.DateRange, error) {
	if f.start == "" && f.end == "" {
		return nil, nil
	}
	if f.start == "" || f.end == "" {
		return nil, &domain.ValidationError{Field: "date_range", Reason: "needs both --start and --end"}
	}

	start, err := domain.ParseDate(f.start)
	if err != nil {
		return nil, &domain.ValidationError{Field: "start_date", Reason: "must be a YYYY-MM-DD date"}
	}
	end, err := domain.ParseDate(f.end)
	if err != nil {
		return nil, &domain.ValidationError{Field: "end_date", Reason: "must be a YYYY-MM-DD date"}
	}
	return &domain.DateRange{Start: start, End: end}, nil
}

func newListCommand(taskService ports.TaskService) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := validation.ParseStatusFilter(status)
			if err != nil {
				return fmt.Errorf("--status %q: %w", status, err)
			}

			tasks, err := taskService.ListTasks(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), mapper.ToTaskItems(tasks))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show tasks in this status: active, completed or archived")

	return cmd
}

func newShowCommand(taskService ports.TaskService) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskService.GetTask(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("show task: %w", err)
			}
			return printTask(cmd, task)
		},
	}
}

func newCreateCommand(taskService ports.TaskService) *cobra.Command {
	var (
		name        string
		description string
		kind        string
		target      int
		progress    int
		schedule    scheduleFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := schedule.dateRange()
			if err != nil {
				return err
			}

			input := domain.CreateTaskInput{
				Name:        name,
				Description: description,
				Kind:        domain.TaskKind(kind),
				RepeatRule:  schedule.repeatRule(),
				DateRange:   dates,
			}
			if cmd.Flags().Changed("target") {
				input.Target = &target
			}
			if cmd.Flags().Changed("progress") {
				input.Progress = &progress
			}

			task, err := taskService.CreateTask(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			return printTask(cmd, task)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "task name")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&kind, "kind", string(domain.TaskKindOnce), "once, cycle or long_term")
	cmd.Flags().IntVar(&target, "target", domain.DefaultTarget, "number of steps to complete the task")
	cmd.Flags().IntVar(&progress, "progress", 0, "initial progress")
	schedule.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// newEditCommand loads the task and overlays only the flags that were set, so
// omitted fields keep their stored values.
func newEditCommand(taskService ports.TaskService) *cobra.Command {
	var (
		name        string
		description string
		target      int
		schedule    scheduleFlags
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit the name, description, target or schedule of a task",
		Long: `Edit reads the task, overlays the flags that were given and saves the result.

The read and the save are two separate commands. If another process edits the
same task in between, its change is overwritten: last write wins.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := taskService.GetTask(ctx, args[0])
			if err != nil {
				return fmt.Errorf("edit task: %w", err)
			}

			input := domain.UpdateTaskInput{
				ID:          current.ID,
				Name:        current.Name,
				Description: current.Description,
				Kind:        current.Kind,
				RepeatRule:  current.RepeatRule,
			}
			currentTarget := current.Target
			input.Target = &currentTarget
			if current.StartDate != nil && current.EndDate != nil {
				input.DateRange = &domain.DateRange{Start: *current.StartDate, End: *current.EndDate}
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = name
			}
			if flags.Changed("description") {
				input.Description = description
			}
			if flags.Changed("target") {
				input.Target = &target
			}
			if flags.Changed("repeat") {
				input.RepeatRule = schedule.repeatRule()
			}
			if flags.Changed("start") || flags.Changed("end") {
				if !flags.Changed("start") && input.DateRange != nil {
					schedule.start = input.DateRange.Start.Format(domain.DateLayout)
				}
				if !flags.Changed("end") && input.DateRange != nil {
					schedule.end = input.DateRange.End.Format(domain.DateLayout)
				}
				dates, err := schedule.dateRange()
				if err != nil {
					return err
				}
				input.DateRange = dates
			}

			task, err := taskService.UpdateTask(ctx, input)
			if err != nil {
				return fmt.Errorf("edit task: %w", err)
			}
			return printTask(cmd, task)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new task name")
	cmd.Flags().StringVar(&description, "description", "", "new task description")
	cmd.Flags().IntVar(&target, "target", domain.DefaultTarget, "new target")
	schedule.register(cmd)

	return cmd
}

func newLifecycleCommand(use, short string, command func(ctx context.Context, id string) (domain.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := command(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s task: %w", use, err)
			}
			return printTask(cmd, task)
		},
	}
}

func newDeleteCommand(taskService ports.TaskService) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := taskService.DeleteTask(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}
