// Package console provides the interactive prompt that run
// --interactive attaches to a running simulator instance. Leaving the
// console does not stop the instance; the caller owns its teardown.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"simcat/internal/formatting"
	"simcat/pkg/simulator"
)

// promptChevronUnicode is the separator used in the prompt.
const promptChevronUnicode = "»"

// promptChevronASCII is the fallback chevron for terminals without
// unicode support.
const promptChevronASCII = ">"

// historyFileName keeps command history across console sessions.
const historyFileName = ".simcat_console_history"

// errExit signals that the user asked to leave the console.
var errExit = errors.New("exit")

// Console is an interactive prompt bound to a running simulator
// instance.
type Console struct {
	instance *simulator.Instance
	token    string
	rl       *readline.Instance
	out      io.Writer
}

// New creates a console for the given instance. token is the resolved
// scenario auth token, empty when the scenario has none.
func New(instance *simulator.Instance, token string) *Console {
	return &Console{
		instance: instance,
		token:    token,
		out:      os.Stdout,
	}
}

// detectUnicodeSupport checks if the terminal likely supports unicode
// characters.
func detectUnicodeSupport() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	for _, v := range []string{os.Getenv("LANG"), os.Getenv("LC_ALL")} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return true
		}
	}
	return true
}

// buildPrompt creates the console prompt with the instance ID.
func (c *Console) buildPrompt() string {
	chevron := promptChevronASCII
	if detectUnicodeSupport() {
		chevron = promptChevronUnicode
	}
	return fmt.Sprintf("simcat %s %s ", c.instance.ID, chevron)
}

// Run starts the console and processes commands until exit, EOF, or
// context cancellation.
func (c *Console) Run(ctx context.Context) error {
	completer := createCompleter()
	historyFile := filepath.Join(os.TempDir(), historyFileName)

	config := &readline.Config{
		Prompt:          c.buildPrompt(),
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	c.rl = rl

	fmt.Fprintf(c.out, "Connected to %s at %s. Type 'help' for available commands.\n\n", c.instance.ID, c.instance.BaseURL)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := c.dispatch(input); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}

		fmt.Fprintln(c.out)
	}
}

// dispatch parses and executes a single console command.
func (c *Console) dispatch(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if command == "?" {
		command = "help"
	}

	switch command {
	case "status":
		return c.printStatus()
	case "port":
		fmt.Fprintln(c.out, c.instance.Port)
		return nil
	case "url":
		fmt.Fprintln(c.out, c.instance.BaseURL)
		return nil
	case "logs":
		return c.printLogs(args)
	case "token":
		if c.token == "" {
			fmt.Fprintln(c.out, "no token resolved for this scenario")
		} else {
			fmt.Fprintln(c.out, c.token)
		}
		return nil
	case "config":
		return c.printConfig()
	case "help":
		c.printHelp()
		return nil
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}
}

func (c *Console) printStatus() error {
	fmt.Fprintf(c.out, "instance: %s\n", c.instance.ID)
	fmt.Fprintf(c.out, "state:    %s\n", c.instance.State())
	fmt.Fprintf(c.out, "port:     %d\n", c.instance.Port)
	fmt.Fprintf(c.out, "url:      %s\n", c.instance.BaseURL)
	fmt.Fprintf(c.out, "workdir:  %s\n", c.instance.Workdir)
	return nil
}

func (c *Console) printLogs(args []string) error {
	tail := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("usage: logs [n]")
		}
		tail = n
	}

	combined := c.instance.Logs().Combined
	if combined == "" {
		fmt.Fprintln(c.out, "no output captured yet")
		return nil
	}

	if tail > 0 {
		combined = tailLines(combined, tail)
	}
	fmt.Fprint(c.out, combined)
	if !strings.HasSuffix(combined, "\n") {
		fmt.Fprintln(c.out)
	}
	return nil
}

// tailLines returns the last n lines of s.
func tailLines(s string, n int) string {
	trimmed := strings.TrimSuffix(s, "\n")
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n") + "\n"
}

func (c *Console) printConfig() error {
	data, err := os.ReadFile(c.instance.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read simulator configuration: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse simulator configuration: %w", err)
	}

	fmt.Fprintln(c.out, formatting.PrettyJSON(doc))
	return nil
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  status      show instance ID, state, port, URL, and workdir
  port        print the listening port
  url         print the base URL
  logs [n]    print captured simulator output (last n lines)
  token       print the resolved scenario auth token
  config      print the rendered simulator configuration
  help        show this help
  exit        leave the console (run's teardown stops the simulator)
`)
}

// createCompleter creates the tab completion configuration.
func createCompleter() *readline.PrefixCompleter {
	commandItems := []readline.PrefixCompleterInterface{
		readline.PcItem("status"),
		readline.PcItem("port"),
		readline.PcItem("url"),
		readline.PcItem("logs"),
		readline.PcItem("token"),
		readline.PcItem("config"),
		readline.PcItem("exit"),
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help", commandItems...),
		readline.PcItem("?"),
		readline.PcItem("status"),
		readline.PcItem("port"),
		readline.PcItem("url"),
		readline.PcItem("logs"),
		readline.PcItem("token"),
		readline.PcItem("config"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}

// filterInput filters input characters for readline.
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
