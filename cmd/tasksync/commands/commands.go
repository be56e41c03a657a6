package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/taskmaster/tasksync/internal/adapters/repository"
	"github.com/taskmaster/tasksync/internal/application/services"
	"github.com/taskmaster/tasksync/internal/console"
	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/infrastructure/config"
	"github.com/taskmaster/tasksync/internal/infrastructure/logger"
	"github.com/taskmaster/tasksync/internal/infrastructure/server"
	"github.com/taskmaster/tasksync/internal/ports"
	"github.com/taskmaster/tasksync/internal/render"
)

// Build information, set with -ldflags
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewTasksCommand creates the tasks command with one subcommand per operation
func NewTasksCommand() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Run one task operation against the task service",
		Long:  "Dispatch a single operation, wait for it to settle and print the resulting task collection",
	}

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Fetch every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, func(ctx context.Context, svc *services.TaskSyncService) (*services.Operation, error) {
				return svc.FetchAll(ctx)
			})
		},
	})

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "summary <employee-id> <date>",
		Short: "Fetch one employee's tasks for a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, func(ctx context.Context, svc *services.TaskSyncService) (*services.Operation, error) {
				return svc.FetchByEmployeeAndDate(ctx, args[0], args[1])
			})
		},
	})

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a task for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, _ := cmd.Flags().GetInt("employee-id")
			description, _ := cmd.Flags().GetString("description")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")

			draft, err := entities.NewTaskDraft(employeeID, description, start, end, time.Now())
			if err != nil {
				return err
			}
			return runOperation(cmd, func(ctx context.Context, svc *services.TaskSyncService) (*services.Operation, error) {
				return svc.Create(ctx, draft)
			})
		},
	}
	createCmd.Flags().Int("employee-id", 0, "Employee id (required)")
	createCmd.Flags().String("description", "", "Task description")
	createCmd.Flags().String("start", "", "Start time, HH:MM (required)")
	createCmd.Flags().String("end", "", "End time, HH:MM (required)")
	_ = createCmd.MarkFlagRequired("employee-id")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
	tasksCmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			description, _ := cmd.Flags().GetString("description")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")

			req := ports.UpdateTaskRequest{TaskID: id, Description: description, StartTime: start, EndTime: end}
			return runOperation(cmd, func(ctx context.Context, svc *services.TaskSyncService) (*services.Operation, error) {
				return svc.Update(ctx, req)
			})
		},
	}
	updateCmd.Flags().String("description", "", "Task description")
	updateCmd.Flags().String("start", "", "Start time, HH:MM (required)")
	updateCmd.Flags().String("end", "", "End time, HH:MM (required)")
	_ = updateCmd.MarkFlagRequired("start")
	_ = updateCmd.MarkFlagRequired("end")
	tasksCmd.AddCommand(updateCmd)

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return runOperation(cmd, func(ctx context.Context, svc *services.TaskSyncService) (*services.Operation, error) {
				return svc.Delete(ctx, id)
			})
		},
	})

	return tasksCmd
}

// NewConsoleCommand creates the interactive console command
func NewConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start an interactive task console",
		Long:  "Keep one task collection alive, dispatch operations interactively and print every state transition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.serveMetrics(ctx)

			c := console.New(a.service, a.cfg.Gateway.BaseURL)
			c.In = cmd.InOrStdin()
			c.Out = cmd.OutOrStdout()
			return c.Run(ctx)
		},
	}
}

// NewServeStubCommand creates the command running the reference task service
func NewServeStubCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-stub",
		Short: "Start the in-memory reference task service",
		Long:  "Serve the task REST resource from memory, for local development against the client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStub(cmd.Context())
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print tasksync version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tasksync v%s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}

type operationFunc func(ctx context.Context, svc *services.TaskSyncService) (*services.Operation, error)

// runOperation dispatches one operation, waits for it and prints the outcome
func runOperation(cmd *cobra.Command, run operationFunc) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	op, err := run(ctx, a.service)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := a.settle(ctx, op); err != nil {
		render.Error(out, err)
		return fmt.Errorf("%s failed", op.Kind)
	}

	render.Tasks(out, a.service.Store().Snapshot().Tasks)
	return nil
}

func runStub(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
	}

	srv := server.New(cfg.Server, repository.NewTaskRepository(), appLogger, registry)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
