package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/frontdesk/internal/ports/primary"
)

// CallAdapter plays a call over a line-oriented terminal in place of the
// voice channel.
type CallAdapter struct {
	service primary.ReceptionistService
	in      io.Reader
	out     io.Writer
}

// NewCallAdapter creates a new CallAdapter reading utterances from in.
func NewCallAdapter(service primary.ReceptionistService, in io.Reader, out io.Writer) *CallAdapter {
	return &CallAdapter{
		service: service,
		in:      in,
		out:     out,
	}
}

var agentColor = color.New(color.FgCyan)

func isHangup(line string) bool {
	switch strings.ToLower(line) {
	case "bye", "goodbye", "quit", "exit":
		return true
	}
	return false
}

// Converse starts a session for phoneNumber and answers each input line
// until EOF or a hang-up word. It returns the session id.
func (a *CallAdapter) Converse(ctx context.Context, phoneNumber string) (string, error) {
	start, err := a.service.StartSession(ctx, phoneNumber)
	if err != nil {
		return "", err
	}
	caller := primary.Caller{SessionID: start.SessionID, PhoneNumber: phoneNumber}

	fmt.Fprintf(a.out, "%s %s\n", agentColor.Sprint("agent>"), start.Greeting)

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isHangup(line) {
			break
		}

		resp, err := a.service.HandleQuery(ctx, caller, line)
		if err != nil {
			return start.SessionID, err
		}
		fmt.Fprintf(a.out, "%s %s\n", agentColor.Sprint("agent>"), resp.Reply)
		if resp.Escalated {
			fmt.Fprintf(a.out, "       %s\n", pendingColor.Sprint("(escalated to supervisor)"))
		}
	}
	if err := scanner.Err(); err != nil {
		return start.SessionID, fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintf(a.out, "Call ended (session %s)\n", start.SessionID)
	return start.SessionID, nil
}
