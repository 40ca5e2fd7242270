package app

import (
	"fmt"
	"io"

	"github.com/fpt/go-renova-cli/internal/repository"
)

// WriteDecision prints the human-readable decision block followed by the
// task string for the agent-dispatch runtime. The task line is the sole
// machine-facing interface: plain text embedding the agent name and message.
func WriteDecision(w io.Writer, title string, action repository.NextAction) {
	fmt.Fprintf(w, "--- %s ---\n", title)
	fmt.Fprintf(w, "Next Agent to Invoke: %s\n", action.Agent)
	fmt.Fprintf(w, "Reason/Message: %s\n", action.Message)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Command for Meta-Agent ---")
	fmt.Fprintln(w, action.TaskCommand())
}
