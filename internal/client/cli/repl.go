package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Categories(ctx context.Context) error
	Services(ctx context.Context, category string) error
	Request(ctx context.Context, serviceID string) error
	Requests(ctx context.Context) error
	Membership(ctx context.Context) error
	Plans(ctx context.Context) error
	Upgrade(ctx context.Context, planID string) error
}

// runREPL starts a simple read-eval-print loop for the pulse CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pulse %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, categories, services [category], request <service-id>, requests, membership, plans, upgrade <plan-id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "categories":
			_ = a.Categories(ctx)

		case "services":
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			_ = a.Services(ctx, category)

		case "request":
			if len(args) == 0 {
				printlnFn("Usage: request <service-id>")
				continue
			}
			_ = a.Request(ctx, args[0])

		case "requests":
			_ = a.Requests(ctx)

		case "membership":
			_ = a.Membership(ctx)

		case "plans":
			_ = a.Plans(ctx)

		case "upgrade":
			if len(args) == 0 {
				printlnFn("Usage: upgrade <plan-id>")
				continue
			}
			_ = a.Upgrade(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
