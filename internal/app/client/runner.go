package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Apurer/grocery-store-client/internal/domains/items/application"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
)

// FieldInput is one raw field value typed by the user.
type FieldInput struct {
	Field domain.Field
	Raw   string
}

// Runner executes single item commands against a controller and prints the
// outcome.
type Runner struct {
	ctrl *application.Controller
	out  io.Writer
}

func NewRunner(ctrl *application.Controller, out io.Writer) *Runner {
	return &Runner{ctrl: ctrl, out: out}
}

// List refreshes and prints the item table.
func (r *Runner) List(ctx context.Context) error {
	if err := r.ctrl.Refresh(ctx); err != nil {
		return r.report(err)
	}
	return renderItems(r.out, r.ctrl.Items(), r.ctrl.Mode())
}

// Add fills the new-item draft and creates it.
func (r *Runner) Add(ctx context.Context, inputs ...FieldInput) error {
	for _, in := range inputs {
		if err := r.ctrl.SetNewField(in.Field, in.Raw); err != nil {
			return r.report(err)
		}
	}
	return r.mutate(r.ctrl.CommitNew(ctx))
}

// Update edits the listed item: unspecified fields keep their current values
// and the result replaces the stored item.
func (r *Runner) Update(ctx context.Context, id string, inputs ...FieldInput) error {
	if err := r.ctrl.Refresh(ctx); err != nil {
		return r.report(err)
	}
	if err := r.ctrl.BeginEdit(id); err != nil {
		return fmt.Errorf("item %q: %w", id, err)
	}
	for _, in := range inputs {
		if err := r.ctrl.SetEditField(in.Field, in.Raw); err != nil {
			_ = r.ctrl.CancelEdit()
			return r.report(err)
		}
	}
	return r.mutate(r.ctrl.CommitEdit(ctx))
}

func (r *Runner) Delete(ctx context.Context, id string) error {
	return r.mutate(r.ctrl.Delete(ctx, id))
}

func (r *Runner) Adjust(ctx context.Context, id string, direction domain.Direction) error {
	return r.mutate(r.ctrl.Adjust(ctx, id, direction))
}

func (r *Runner) mutate(err error) error {
	if err != nil {
		return r.report(err)
	}
	if err := renderStatus(r.out, r.ctrl.Status()); err != nil {
		return err
	}
	return renderItems(r.out, r.ctrl.Items(), r.ctrl.Mode())
}

// reportedError marks an error whose status line was already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Reported reports whether the user has already seen err.
func Reported(err error) bool {
	var rep reportedError
	return errors.As(err, &rep)
}

// report prints the recorded status and passes err through.
func (r *Runner) report(err error) error {
	if errors.Is(err, application.ErrClosed) || errors.Is(err, application.ErrNotEditing) {
		return err
	}
	if printErr := renderStatus(r.out, r.ctrl.Status()); printErr != nil {
		return errors.Join(err, printErr)
	}
	return reportedError{err: err}
}
