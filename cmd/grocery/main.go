package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	appclient "github.com/Apurer/grocery-store-client/internal/app/client"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		if !appclient.Reported(err) {
			fmt.Fprintf(os.Stderr, "grocery: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	fieldFlags := []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "item name"},
		&cli.StringFlag{Name: "price", Usage: "unit price, a non-negative number"},
		&cli.StringFlag{Name: "quantity", Aliases: []string{"qty"}, Usage: "stock count, a non-negative integer"},
	}
	return &cli.App{
		Name:  "grocery",
		Usage: "manage the items of a grocery store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "base URL of the item store (overrides GROCERY_API_URL)"},
			&cli.DurationFlag{Name: "timeout", Usage: "HTTP request timeout (overrides GROCERY_HTTP_TIMEOUT)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides GROCERY_LOG_LEVEL)"},
			&cli.BoolFlag{Name: "trace", Usage: "print client spans to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "show all items",
				Action: withRunner(func(ctx *cli.Context, r *appclient.Runner) error {
					return r.List(ctx.Context)
				}),
			},
			{
				Name:  "add",
				Usage: "create an item",
				Flags: fieldFlags,
				Action: withRunner(func(ctx *cli.Context, r *appclient.Runner) error {
					return r.Add(ctx.Context, fieldInputs(ctx)...)
				}),
			},
			{
				Name:      "update",
				Usage:     "change fields of an item; omitted fields keep their values",
				ArgsUsage: "<id>",
				Flags:     fieldFlags,
				Action: withRunner(func(ctx *cli.Context, r *appclient.Runner) error {
					id, err := itemID(ctx)
					if err != nil {
						return err
					}
					return r.Update(ctx.Context, id, fieldInputs(ctx)...)
				}),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "delete an item",
				ArgsUsage: "<id>",
				Action: withRunner(func(ctx *cli.Context, r *appclient.Runner) error {
					id, err := itemID(ctx)
					if err != nil {
						return err
					}
					return r.Delete(ctx.Context, id)
				}),
			},
			adjustCommand("inc", domain.Increment),
			adjustCommand("dec", domain.Decrement),
			{
				Name:  "shell",
				Usage: "interactive session with drafts and edit mode",
				Action: func(ctx *cli.Context) error {
					app, err := buildApp(ctx)
					if err != nil {
						return err
					}
					defer app.Close()
					return appclient.NewShell(app.Controller, os.Stdin, os.Stdout).Run(ctx.Context)
				},
			},
		},
	}
}

func adjustCommand(name string, direction domain.Direction) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     fmt.Sprintf("%s an item's quantity by one", direction),
		ArgsUsage: "<id>",
		Action: withRunner(func(ctx *cli.Context, r *appclient.Runner) error {
			id, err := itemID(ctx)
			if err != nil {
				return err
			}
			return r.Adjust(ctx.Context, id, direction)
		}),
	}
}

func withRunner(fn func(*cli.Context, *appclient.Runner) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(ctx, appclient.NewRunner(app.Controller, os.Stdout))
	}
}

func buildApp(ctx *cli.Context) (*appclient.App, error) {
	cfg, err := appclient.LoadConfig()
	if err != nil {
		return nil, err
	}
	if v := ctx.String("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v := ctx.Duration("timeout"); v > 0 {
		cfg.HTTPTimeout = v
	}
	if v := ctx.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if ctx.Bool("trace") {
		cfg.Trace = true
	}
	return appclient.Build(ctx.Context, cfg, os.Stderr)
}

func fieldInputs(ctx *cli.Context) []appclient.FieldInput {
	var inputs []appclient.FieldInput
	for _, field := range []domain.Field{domain.FieldName, domain.FieldPrice, domain.FieldQuantity} {
		if ctx.IsSet(string(field)) {
			inputs = append(inputs, appclient.FieldInput{Field: field, Raw: ctx.String(string(field))})
		}
	}
	return inputs
}

func itemID(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one item id, got %d arguments", ctx.NArg())
	}
	return ctx.Args().First(), nil
}
