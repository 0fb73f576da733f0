package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Verify(ctx context.Context) error
	Seed(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: list [kind], show <id> [file], add, update <id>, delete <id>, " +
		"history [id], verify, seed, whoami, logout, help, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The first token is the command, the rest are its arguments. A handler
// error is printed and the loop continues. The loop ends on EOF or when the
// user types "exit" or "quit".
//
//	Not logged in:
//	  help, register, login, exit | quit
//
//	Logged in:
//	  list [kind]        list artefacts, optionally of one kind
//	  show <id> [file]   print an artefact or save its payload to file
//	  add                store a new artefact (admin)
//	  update <id>        replace a payload (admin)
//	  delete <id>        remove an artefact (admin)
//	  history [id]       modification history (admin)
//	  verify             check every checksum (admin)
//	  seed               store the sample songs (admin)
//	  whoami, logout, help, exit | quit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("archive%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "l", "list":
			cmdErr = a.List(ctx, args)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "add":
			cmdErr = a.Add(ctx)

		case "update":
			cmdErr = a.Update(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "history":
			cmdErr = a.History(ctx, args)

		case "verify":
			cmdErr = a.Verify(ctx)

		case "seed":
			cmdErr = a.Seed(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}
