package client

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Apurer/grocery-store-client/internal/domains/items/application"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
)

func renderItems(w io.Writer, items []domain.Item, mode application.Mode) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no items")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tPRICE\tQUANTITY")
	for _, item := range items {
		marker := ""
		if mode.Editing() && mode.ItemID == item.ID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", marker, item.ID, item.Name, formatPrice(item.Price), item.Quantity)
	}
	return tw.Flush()
}

func renderDrafts(w io.Writer, newDraft domain.Fields, mode application.Mode) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DRAFT\tNAME\tPRICE\tQUANTITY")
	fmt.Fprintf(tw, "new\t%s\t%s\t%d\n", newDraft.Name, formatPrice(newDraft.Price), newDraft.Quantity)
	if mode.Editing() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", mode, mode.Draft.Name, formatPrice(mode.Draft.Price), mode.Draft.Quantity)
	}
	return tw.Flush()
}

func renderStatus(w io.Writer, status application.Status) error {
	if status.Level == application.StatusNone {
		return nil
	}
	if status.Err != nil {
		_, err := fmt.Fprintf(w, "[%s] %s: %v\n", status.Level, status.Message, status.Err)
		return err
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n", status.Level, status.Message)
	return err
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
