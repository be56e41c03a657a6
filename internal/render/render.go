package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/taskmaster/tasksync/internal/application/services"
	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// Banner shows startup info.
func Banner(out io.Writer, baseURL string) {
	fmt.Fprintln(out, "tasksync console")
	fmt.Fprintf(out, "Service: %s\n", baseURL)
	fmt.Fprintln(out, "Type help for commands.")
}

// Help prints command list.
func Help(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help                                    Show commands")
	fmt.Fprintln(out, "  exit | quit                             Exit")
	fmt.Fprintln(out, "  list                                    Fetch every task")
	fmt.Fprintln(out, "  summary <employee-id> <date>            Fetch one employee's tasks for a date")
	fmt.Fprintln(out, "  create <employee-id> <start> <end> <description>")
	fmt.Fprintln(out, "                                          Record a task for today")
	fmt.Fprintln(out, "  update <id> <start> <end> <description> Edit a task")
	fmt.Fprintln(out, "  delete <id>                             Delete a task")
	fmt.Fprintln(out, "  state                                   Show the local task collection")
	fmt.Fprintln(out, "  wait                                    Wait for outstanding operations")
}

// Info prints a plain line.
func Info(out io.Writer, msg string) {
	fmt.Fprintln(out, msg)
}

// Error prints an error line. Rejections show the recorded message.
func Error(out io.Writer, err error) {
	var rejected *services.RejectedError
	if errors.As(err, &rejected) {
		fmt.Fprintf(out, "error: %s\n", rejected.Message)
		return
	}
	fmt.Fprintf(out, "error: %v\n", err)
}

// Tasks prints task list.
func Tasks(out io.Writer, tasks []entities.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks")
		return
	}
	for _, task := range tasks {
		fmt.Fprintln(out, TaskLine(task))
	}
}

// TaskLine formats one task.
func TaskLine(task entities.Task) string {
	id := "-"
	if task.ID != nil {
		id = fmt.Sprint(*task.ID)
	}
	employee := "-"
	if task.EmployeeID != nil {
		employee = fmt.Sprint(*task.EmployeeID)
	}
	return fmt.Sprintf("#%s  emp %s  %s-%s  %smin  %s", id, employee, task.StartTime, task.EndTime, task.TotalHours, task.DescriptionOrEmpty())
}

// Transition prints one store snapshot.
func Transition(out io.Writer, state entities.State) {
	status := "idle"
	if state.Busy {
		status = "busy"
	}
	fmt.Fprintf(out, "[%s] %d tasks, %d in flight", status, len(state.Tasks), state.InFlight)
	if state.HasError() {
		fmt.Fprintf(out, ", error: %s", state.Error)
	}
	fmt.Fprintln(out)
}
