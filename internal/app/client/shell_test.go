package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	itemsmemory "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/memory"
	itemsapp "github.com/Apurer/grocery-store-client/internal/domains/items/application"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/storestub"
)

func newStubController(t *testing.T) (*itemsapp.Controller, *itemsmemory.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := itemsmemory.NewRepository()
	store.Seed(
		domain.Item{ID: "a1", Name: "Milk", Price: 3.5, Quantity: 2},
		domain.Item{ID: "b2", Name: "Eggs", Price: 0.25, Quantity: 12},
	)
	srv := httptest.NewServer(storestub.NewRouter(context.Background(), store, storestub.WithBasePath("/api")))
	t.Cleanup(srv.Close)

	repo, err := NewRepository(Config{APIURL: srv.URL + "/api", HTTPTimeout: time.Second}, nil)
	require.NoError(t, err)
	ctrl := itemsapp.NewController(repo)
	t.Cleanup(ctrl.Close)
	return ctrl, store
}

func TestRunner_ListAddUpdate(t *testing.T) {
	ctrl, store := newStubController(t)
	var out bytes.Buffer
	r := NewRunner(ctrl, &out)
	ctx := context.Background()

	require.NoError(t, r.List(ctx))
	require.Contains(t, out.String(), "Milk")
	require.Contains(t, out.String(), "0.25")

	out.Reset()
	require.NoError(t, r.Add(ctx,
		FieldInput{Field: domain.FieldName, Raw: "Bread"},
		FieldInput{Field: domain.FieldPrice, Raw: "2"},
	))
	require.Contains(t, out.String(), "[info] item created")
	require.Equal(t, 3, store.Len())

	out.Reset()
	require.NoError(t, r.Update(ctx, "a1", FieldInput{Field: domain.FieldQuantity, Raw: "9"}))
	items, _ := store.List(ctx)
	require.Equal(t, domain.Item{ID: "a1", Name: "Milk", Price: 3.5, Quantity: 9}, items[0])
	require.False(t, ctrl.Mode().Editing())
}

func TestRunner_ReportsFailures(t *testing.T) {
	ctrl, _ := newStubController(t)
	var out bytes.Buffer
	r := NewRunner(ctrl, &out)
	ctx := context.Background()

	err := r.Add(ctx, FieldInput{Field: domain.FieldPrice, Raw: "abc"})
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
	require.True(t, Reported(err))
	require.Contains(t, out.String(), "[warning] input rejected")

	out.Reset()
	err = r.Adjust(ctx, "missing", domain.Increment)
	require.Error(t, err)
	require.True(t, Reported(err))
	require.Contains(t, out.String(), "[error] failed to adjust quantity")

	err = r.Update(ctx, "missing")
	require.ErrorIs(t, err, itemsapp.ErrUnknownItem)
	require.False(t, Reported(err))
}

func TestShell_Session(t *testing.T) {
	ctrl, store := newStubController(t)
	input := strings.Join([]string{
		"set name Sour dough",
		"set price 4.5",
		"save",
		"edit b2",
		"set quantity 6",
		"drafts",
		"save",
		"inc a1",
		"dec a1",
		"dec a1",
		"delete a1",
		"delete a1",
		"frobnicate",
		"quit",
		"list",
	}, "\n")
	var out bytes.Buffer

	require.NoError(t, NewShell(ctrl, strings.NewReader(input), &out).Run(context.Background()))

	items, _ := store.List(context.Background())
	require.Len(t, items, 2)
	require.Equal(t, domain.Item{ID: "b2", Name: "Eggs", Price: 0.25, Quantity: 6}, items[0])
	require.Equal(t, domain.Fields{Name: "Sour dough", Price: 4.5, Quantity: 0}, items[1].Fields())

	text := out.String()
	require.Contains(t, text, "editing(b2)")
	require.Contains(t, text, "[warning] item was already deleted")
	require.Contains(t, text, `unknown command "frobnicate"`)
}

func TestShell_RejectedInputKeepsDraft(t *testing.T) {
	ctrl, _ := newStubController(t)
	input := "set quantity 3\nset quantity three\nset colour red\nedit\n"
	var out bytes.Buffer

	require.NoError(t, NewShell(ctrl, strings.NewReader(input), &out).Run(context.Background()))
	require.Equal(t, 3, ctrl.NewDraft().Quantity)
	text := out.String()
	require.Contains(t, text, "[warning] input rejected")
	require.Contains(t, text, "unknown item field")
	require.Contains(t, text, "item id is required")
}

func TestCut(t *testing.T) {
	head, tail := cut("  set name   Sour dough ")
	require.Equal(t, "set", head)
	require.Equal(t, "name   Sour dough", tail)

	field, value := cut(tail)
	require.Equal(t, "name", field)
	require.Equal(t, "Sour dough", value)
}
