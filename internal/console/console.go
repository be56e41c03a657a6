package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/taskmaster/tasksync/internal/application/services"
	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/ports"
	"github.com/taskmaster/tasksync/internal/render"
)

// WaitTimeout bounds the wait command
const WaitTimeout = 30 * time.Second

// Console is an interactive loop over one long-lived TaskSyncService.
// Operations are dispatched without waiting; every store transition is
// printed as it happens.
type Console struct {
	Service *services.TaskSyncService
	BaseURL string
	In      io.Reader
	Out     io.Writer

	mu      sync.Mutex
	pending []*services.Operation
	now     func() time.Time
}

// New constructs a Console instance.
func New(svc *services.TaskSyncService, baseURL string) *Console {
	return &Console{Service: svc, BaseURL: baseURL, In: os.Stdin, Out: os.Stdout, now: time.Now}
}

// Run starts the interactive loop. It returns when the input ends or on exit.
func (c *Console) Run(ctx context.Context) error {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.now == nil {
		c.now = time.Now
	}
	out := &lockedWriter{w: c.Out}

	unsubscribe := c.Service.Store().Subscribe(func(state entities.State) {
		render.Transition(out, state)
	})
	defer unsubscribe()

	render.Banner(out, c.BaseURL)
	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if c.handleCommand(ctx, out, line) {
			break
		}
	}
	return scanner.Err()
}

func (c *Console) handleCommand(ctx context.Context, out io.Writer, line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	var (
		op  *services.Operation
		err error
	)

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		render.Help(out)
		return false
	case "state":
		render.Tasks(out, c.Service.Store().Snapshot().Tasks)
		return false
	case "wait":
		c.wait(ctx, out)
		return false
	case "list":
		op, err = c.Service.FetchAll(ctx)
	case "summary":
		if len(args) != 2 {
			render.Info(out, "usage: summary <employee-id> <date>")
			return false
		}
		op, err = c.Service.FetchByEmployeeAndDate(ctx, args[0], args[1])
	case "create":
		if len(args) < 3 {
			render.Info(out, "usage: create <employee-id> <start> <end> <description>")
			return false
		}
		op, err = c.create(ctx, args)
	case "update":
		if len(args) < 3 {
			render.Info(out, "usage: update <id> <start> <end> <description>")
			return false
		}
		op, err = c.update(ctx, args)
	case "delete":
		if len(args) != 1 {
			render.Info(out, "usage: delete <id>")
			return false
		}
		op, err = c.delete(ctx, args[0])
	default:
		render.Info(out, "unknown command, type help")
		return false
	}

	if err != nil {
		render.Error(out, err)
		return false
	}
	c.track(op)
	return false
}

func (c *Console) create(ctx context.Context, args []string) (*services.Operation, error) {
	employeeID, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid employee id %q", args[0])
	}

	draft, err := entities.NewTaskDraft(employeeID, strings.Join(args[3:], " "), args[1], args[2], c.now())
	if err != nil {
		return nil, err
	}
	return c.Service.Create(ctx, draft)
}

func (c *Console) update(ctx context.Context, args []string) (*services.Operation, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q", args[0])
	}

	return c.Service.Update(ctx, ports.UpdateTaskRequest{
		TaskID:      id,
		Description: strings.Join(args[3:], " "),
		StartTime:   args[1],
		EndTime:     args[2],
	})
}

func (c *Console) delete(ctx context.Context, arg string) (*services.Operation, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q", arg)
	}
	return c.Service.Delete(ctx, id)
}

func (c *Console) track(op *services.Operation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, op)
}

// wait blocks until every tracked operation settles and reports rejections
func (c *Console) wait(ctx context.Context, out io.Writer) {
	c.mu.Lock()
	ops := c.pending
	c.pending = nil
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, WaitTimeout)
	defer cancel()

	for _, op := range ops {
		if err := op.Wait(ctx); err != nil {
			render.Error(out, err)
		}
	}
	render.Info(out, fmt.Sprintf("%d operations settled", len(ops)))
}

// lockedWriter serializes writes from the prompt loop and store listeners
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
