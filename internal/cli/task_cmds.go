package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/tasks"
	"github.com/spf13/cobra"
)

// now is swapped in tests so due labels are stable.
var now = time.Now

func parseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

// withTasks opens the app, restores the session and hands fn a repository.
func withTasks(cmd *cobra.Command, flags *globalFlags, fn func(a *app, repo *tasks.Repository) error) error {
	a, err := flags.open(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	if _, err := a.restore(cmd.Context()); err != nil {
		return err
	}
	return fn(a, a.repository(cmd.Context()))
}

func tasksCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "List and change tasks",
	}
	cmd.AddCommand(
		tasksListCmd(flags),
		tasksAddCmd(flags),
		tasksShowCmd(flags),
		tasksStatusCmd(flags, "start", model.StatusInProgress),
		tasksStatusCmd(flags, "done", model.StatusDone),
		tasksStatusCmd(flags, "reopen", model.StatusTodo),
		tasksRemoveCmd(flags),
	)
	return cmd
}

func tasksListCmd(flags *globalFlags) *cobra.Command {
	var keyword, statuses, sort string
	var urgent bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, flags, func(a *app, repo *tasks.Repository) error {
				f := repo.Filter()
				f.Keyword = strings.TrimSpace(keyword)
				if statuses != "" {
					list, err := model.ParseStatusList(statuses)
					if err != nil {
						return err
					}
					f.Statuses = list
				}
				if order, err := sortFlag(sort); err != nil {
					return err
				} else if order != "" {
					f.Sort = order
				}
				if err := repo.List(cmd.Context(), f); err != nil {
					return errors.New(api.Message(err))
				}

				at := now()
				list := repo.Tasks()
				if urgent {
					list = repo.Urgent(at)
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, mutedStyle.Render("no tasks"))
					return nil
				}
				fmt.Fprintln(out, taskTable(list, at))
				c := repo.Counts()
				fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("todo %d | in progress %d | done %d", c.Todo, c.InProgress, c.Done)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&keyword, "search", "q", "", "keyword to match")
	cmd.Flags().StringVar(&statuses, "status", "", "comma separated statuses: todo,in_progress,done")
	cmd.Flags().StringVar(&sort, "sort", "", "sort order, e.g. due_asc")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "only tasks due before tomorrow ends")
	return cmd
}

func tasksAddCmd(flags *globalFlags) *cobra.Command {
	var description, due string
	var priority int
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := model.TaskDraft{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    priority,
				DueDate:     due,
			}
			if draft.DueDate != "" {
				if _, err := model.ParseDateTime(draft.DueDate, time.Local); err != nil {
					return fmt.Errorf("due must look like 2024-01-10T18:00: %w", err)
				}
			}
			return withTasks(cmd, flags, func(a *app, repo *tasks.Repository) error {
				t, err := repo.Create(cmd.Context(), draft)
				if err != nil {
					if errors.Is(err, model.ErrEmptyTitle) {
						return err
					}
					return errors.New(api.Message(err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("created #%d %q", t.ID, t.Title)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "markdown description")
	cmd.Flags().IntVarP(&priority, "priority", "p", model.DefaultPriority, "priority 1-5")
	cmd.Flags().StringVar(&due, "due", "", "due date, local time, e.g. 2024-01-10T18:00")
	return cmd
}

func tasksShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, flags, func(a *app, repo *tasks.Repository) error {
				t, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return errors.New(api.Message(err))
				}
				fmt.Fprint(cmd.OutOrStdout(), taskDetail(t, now()))
				return nil
			})
		},
	}
}

func tasksStatusCmd(flags *globalFlags, name string, status model.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: "Mark a task " + status.Label(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, flags, func(a *app, repo *tasks.Repository) error {
				t, err := repo.Update(cmd.Context(), id, model.StatusPatch(status))
				if err != nil {
					return errors.New(api.Message(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s\n", t.Title, t.Status.Label())
				return nil
			})
		},
	}
}

func tasksRemoveCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, flags, func(a *app, repo *tasks.Repository) error {
				confirm := tasks.Confirmed(true)
				if !yes {
					title := ""
					if t, err := repo.Get(cmd.Context(), id); err == nil {
						title = t.Title
					}
					confirm = promptConfirm(cmd, title)
				}
				err := repo.Delete(cmd.Context(), id, confirm)
				switch {
				case errors.Is(err, tasks.ErrDeleteCancelled):
					fmt.Fprintln(cmd.OutOrStdout(), "delete cancelled")
					return nil
				case err != nil:
					return errors.New(api.Message(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func promptConfirm(cmd *cobra.Command, title string) tasks.ConfirmFunc {
	return func(t model.Task) bool {
		label := fmt.Sprintf("#%d", t.ID)
		if title != "" {
			label = fmt.Sprintf("%q", title)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "delete %s? [y/N] ", label)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
