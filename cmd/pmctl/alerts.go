package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go-pm/internal/alertdesk"
	"go-pm/pkg/pmclient"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// serverFilter holds the flags that are sent to the server.
type serverFilter struct {
	status    string
	assignee  string
	projectID string
	priority  string
}

func (f *serverFilter) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", pmclient.StatusActive, "alert status")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "only alerts assigned to this user id")
	cmd.Flags().StringVar(&f.projectID, "project-id", "", "only alerts of this project id")
	cmd.Flags().StringVar(&f.priority, "priority", "", "low, medium or high")
}

func (f serverFilter) filter() alertdesk.Filter {
	return alertdesk.Filter{Status: f.status, UserID: f.assignee, ProjectID: f.projectID, Priority: f.priority}
}

// openDesk loads the taxonomy and the alert list concurrently and builds
// the desk around them.
func openDesk(ctx context.Context, filter alertdesk.Filter, opts ...alertdesk.OrchestratorOption) (*alertdesk.Desk, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	log := newLogger()
	fetcher := alertdesk.NewFetcher(client, log)

	var presenter *alertdesk.Presenter
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		presenter = alertdesk.NewPresenter(loadTaxonomy(gctx, client, log), localeTag())
		return nil
	})
	g.Go(func() error {
		fetcher.Load(gctx, filter)
		if msg := fetcher.Err(); msg != "" {
			return fmt.Errorf("load alerts: %s", msg)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	orchestrator := alertdesk.NewOrchestrator(client, fetcher, log, opts...)
	return alertdesk.NewDesk(fetcher, presenter, orchestrator, currentUser(), log), nil
}

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "alerts", Short: "Work the alert queue"}
	cmd.AddCommand(alertsListCmd())
	cmd.AddCommand(alertsAckCmd())
	cmd.AddCommand(alertsDismissCmd())
	cmd.AddCommand(alertsAssignCmd())
	cmd.AddCommand(alertsCompleteCmd())
	cmd.AddCommand(alertsWatchCmd())
	return cmd
}

func alertsListCmd() *cobra.Command {
	var sf serverFilter
	var q alertdesk.Query
	var sortKey string
	var desc, grouped bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := openDesk(cmd.Context(), sf.filter())
			if err != nil {
				return err
			}
			q.Sort = alertdesk.SortState{Key: alertdesk.SortKey(sortKey)}
			if desc {
				q.Sort.Dir = alertdesk.Descending
			}
			alerts, err := desk.View(cmd.Context(), sf.filter(), q)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(alerts)
			}
			if grouped {
				for _, group := range alertdesk.GroupByPhase(alerts, desk.Presenter) {
					fmt.Printf("\n%s (%d)\n", group.Phase, len(group.Alerts))
					renderAlerts(desk.Presenter, group.Alerts)
				}
				return nil
			}
			renderAlerts(desk.Presenter, alerts)
			return nil
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVar(&q.Project, "project", "", "project id or name")
	cmd.Flags().StringVar(&q.Role, "role-filter", "", "responsible role, mine, or all")
	cmd.Flags().StringVar(&q.Subject, "subject", "", "step name")
	cmd.Flags().StringVar(&sortKey, "sort", "", "project, subject, date or priority")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&grouped, "group", false, "group by phase")
	return cmd
}

func renderAlerts(p *alertdesk.Presenter, alerts []pmclient.Alert) {
	now := time.Now()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Project", "Step", "Role", "Priority", "Age", "Read"})
	for _, a := range alerts {
		read := ""
		if a.Acknowledged {
			read = "yes"
		}
		t.AppendRow(table.Row{
			a.ID,
			a.ProjectName(),
			a.StepName,
			p.ResponsibleRole(a),
			a.Priority,
			alertdesk.Age(a, now).Truncate(time.Minute),
			read,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(alerts)})
	t.Render()
}

func alertsAckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ack <alert-id>",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			fetcher := alertdesk.NewFetcher(client, newLogger())
			if err := fetcher.Acknowledge(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("acknowledged", args[0])
			return nil
		},
	}
}

func alertsDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <alert-id>",
		Short: "Dismiss an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			fetcher := alertdesk.NewFetcher(client, newLogger())
			if err := fetcher.Dismiss(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("dismissed", args[0])
			return nil
		},
	}
}

func alertsAssignCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "assign <alert-id>",
		Short: "Reassign an alert to another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			form := alertdesk.NewAssignForm(alertdesk.NewFetcher(client, newLogger()))
			form.Open(args[0])
			form.Select(to)
			if err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("assigned %s to %s\n", args[0], to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "user id of the new assignee")
	return cmd
}

func alertsCompleteCmd() *cobra.Command {
	var sf serverFilter
	var notes string
	var realtime bool
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "complete <alert-id>",
		Short: "Complete the workflow step behind an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			asJSON := viper.GetBool("json")
			var navOut io.Writer = os.Stdout
			if asJSON {
				navOut = io.Discard
			}
			nav := newPrintNavigator(navOut)
			opts := []alertdesk.OrchestratorOption{
				alertdesk.WithNavigator(nav),
				alertdesk.WithNavigationDelay(delay),
			}

			if realtime {
				client, err := newClient()
				if err != nil {
					return err
				}
				rt, err := client.DialRealtime(ctx, nil)
				if err != nil {
					newLogger().Warn("Realtime unavailable", zap.Error(err))
				} else {
					defer rt.Close()
					opts = append(opts, alertdesk.WithEmitter(rt))
				}
			}

			desk, err := openDesk(ctx, sf.filter(), opts...)
			if err != nil {
				return err
			}
			res, err := desk.Complete(ctx, args[0], notes)
			if err != nil {
				return err
			}
			if asJSON {
				target, ok := awaitNavigation(ctx, nav, res, delay+2*time.Second)
				summary := completionSummary(res)
				if ok {
					summary["navigation"] = projectLink(target)
				}
				return printJSON(summary)
			}

			switch res.Outcome {
			case alertdesk.Skipped:
				fmt.Println("alert has no workflow step; marked as read")
				return nil
			case alertdesk.Completed:
				fmt.Printf("completed %s (%s)\n", res.Request.StepName, res.Request.StepID)
				for _, st := range res.Stages {
					if st.Err != nil {
						fmt.Printf("  %s: %v\n", st.Stage, st.Err)
					}
				}
			}
			awaitNavigation(ctx, nav, res, delay+2*time.Second)
			return nil
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVar(&notes, "notes", "", "completion notes")
	cmd.Flags().BoolVar(&realtime, "realtime", true, "notify other desks over the realtime channel")
	cmd.Flags().DurationVar(&delay, "nav-delay", 500*time.Millisecond, "pause before opening the project view")
	return cmd
}

// awaitNavigation blocks until the delayed navigation of a completed alert
// has run, the timeout passes or ctx ends.
func awaitNavigation(ctx context.Context, nav *printNavigator, res alertdesk.Result, timeout time.Duration) (alertdesk.NavigationTarget, bool) {
	if res.Outcome != alertdesk.Completed {
		return alertdesk.NavigationTarget{}, false
	}
	select {
	case target := <-nav.done:
		return target, true
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	return alertdesk.NavigationTarget{}, false
}

func completionSummary(res alertdesk.Result) map[string]any {
	stages := make(map[string]string, len(res.Stages))
	for _, st := range res.Stages {
		if st.Err != nil {
			stages[st.Stage] = st.Err.Error()
		} else {
			stages[st.Stage] = "ok"
		}
	}
	return map[string]any{
		"outcome":    res.Outcome.String(),
		"workflowId": res.Request.WorkflowID,
		"stepId":     res.Request.StepID,
		"projectId":  res.Request.ProjectID,
		"stepName":   res.Request.StepName,
		"message":    res.Message,
		"stages":     stages,
	}
}

func alertsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print realtime events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			rt, err := client.DialRealtime(cmd.Context(), func(env pmclient.Envelope) {
				fmt.Printf("%s %s %s\n", time.Now().Format(time.TimeOnly), env.Event, string(env.Payload))
			})
			if err != nil {
				return err
			}
			defer rt.Close()
			<-cmd.Context().Done()
			return nil
		},
	}
}
