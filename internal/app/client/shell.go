package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Apurer/grocery-store-client/internal/domains/items/application"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
)

const shellHelp = `commands:
  list                  reload and show items
  show                  show items without reloading
  drafts                show the new-item and edit drafts
  set <field> <value>   set name, price or quantity on the active draft
  save                  create the new item, or save the item being edited
  edit <id>             edit a listed item
  cancel                stop editing
  inc <id> | dec <id>   change an item's quantity by one
  delete <id>           delete an item
  help                  show this text
  quit                  leave the shell
`

// Shell is an interactive line-oriented front end over the controller.
type Shell struct {
	ctrl   *application.Controller
	runner *Runner
	in     io.Reader
	out    io.Writer
	prompt string
}

func NewShell(ctrl *application.Controller, in io.Reader, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, runner: NewRunner(ctrl, out), in: in, out: out, prompt: "grocery> "}
}

// Run loads the list, then reads commands until quit, EOF, or ctx is done.
// Command failures are printed and the shell keeps going.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.runner.List(ctx); errors.Is(err, application.ErrClosed) {
		return err
	}
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := s.exec(ctx, scanner.Text())
		if errors.Is(err, application.ErrClosed) {
			return err
		}
		if err != nil && !Reported(err) {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *Shell) exec(ctx context.Context, line string) (bool, error) {
	cmd, rest := cut(line)
	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err := fmt.Fprint(s.out, shellHelp)
		return false, err
	case "list", "ls", "refresh":
		return false, s.runner.List(ctx)
	case "show":
		return false, renderItems(s.out, s.ctrl.Items(), s.ctrl.Mode())
	case "drafts", "draft":
		return false, renderDrafts(s.out, s.ctrl.NewDraft(), s.ctrl.Mode())
	case "set":
		return false, s.set(rest)
	case "save", "commit":
		return false, s.runner.mutate(s.ctrl.Commit(ctx))
	case "edit":
		id, err := requireID(rest)
		if err != nil {
			return false, err
		}
		if err := s.ctrl.BeginEdit(id); err != nil {
			return false, fmt.Errorf("item %q: %w", id, err)
		}
		return false, renderDrafts(s.out, s.ctrl.NewDraft(), s.ctrl.Mode())
	case "cancel":
		return false, s.ctrl.CancelEdit()
	case "inc", "dec", "+", "-":
		id, err := requireID(rest)
		if err != nil {
			return false, err
		}
		direction, err := domain.ParseDirection(cmd)
		if err != nil {
			return false, err
		}
		return false, s.runner.Adjust(ctx, id, direction)
	case "delete", "del", "rm":
		id, err := requireID(rest)
		if err != nil {
			return false, err
		}
		return false, s.runner.Delete(ctx, id)
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}
}

// set writes to the edit draft while editing and to the new-item draft otherwise.
func (s *Shell) set(args string) error {
	name, raw := cut(args)
	field, err := domain.ParseFieldName(name)
	if err != nil {
		return err
	}
	if s.ctrl.Mode().Editing() {
		err = s.ctrl.SetEditField(field, raw)
	} else {
		err = s.ctrl.SetNewField(field, raw)
	}
	if err != nil {
		return s.runner.report(err)
	}
	return nil
}

func requireID(args string) (string, error) {
	id := strings.TrimSpace(args)
	if id == "" {
		return "", domain.ErrEmptyID
	}
	return id, nil
}

// cut splits off the first word; the remainder keeps inner spacing.
func cut(line string) (string, string) {
	line = strings.TrimSpace(line)
	head, tail, _ := strings.Cut(line, " ")
	return head, strings.TrimSpace(tail)
}
