// Package ui provides terminal UI helpers for the vendra CLI.
package ui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/vendra/vendra/pkg/menus"
	"github.com/vendra/vendra/pkg/movies"
	"github.com/vendra/vendra/pkg/products"
)

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader(headers),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
	)
	return table
}

// RenderProductsTable renders the product catalog to stdout.
func RenderProductsTable(catalog []products.Product) error {
	if len(catalog) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	table := newTable([]string{"ID", "Name", "Code", "Price"})
	for _, p := range catalog {
		if err := table.Append([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Code,
			fmt.Sprintf("%.2f", p.Price),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// PrintProductDetail prints one product's fields to stdout.
func PrintProductDetail(p *products.Product) {
	fmt.Printf("ID:          %d\n", p.ID)
	fmt.Printf("Name:        %s\n", p.Name)
	fmt.Printf("Code:        %s\n", p.Code)
	fmt.Printf("Price:       %.2f\n", p.Price)
	fmt.Printf("Active:      %t\n", p.Active)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
}

// RenderMenusTable renders the menu entries to stdout.
func RenderMenusTable(entries []menus.Menu) error {
	if len(entries) == 0 {
		fmt.Println("No menus found.")
		return nil
	}

	table := newTable([]string{"ID", "Name", "Parent", "Action"})
	for _, m := range entries {
		if err := table.Append([]string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Parent,
			m.Action,
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// RenderMoviesTable renders movie search results to stdout.
func RenderMoviesTable(found []movies.Movie) error {
	if len(found) == 0 {
		fmt.Println("No movies found.")
		return nil
	}

	table := newTable([]string{"ID", "Name", "Genre", "Released", "Rating"})
	for _, m := range found {
		if err := table.Append([]string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Genre,
			m.ReleaseDate,
			fmt.Sprintf("%.1f", m.Rating),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
