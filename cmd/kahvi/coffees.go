package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/kahvi/internal/cli"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/Veraticus/kahvi/internal/table"
	"github.com/spf13/cobra"
)

// coffeesOptions holds the flags of `kahvi coffees`.
type coffeesOptions struct {
	name     string
	source   string
	minPrice string
	maxPrice string
	sortBy   string
	desc     bool
	asJSON   bool
}

func coffeesCmd() *cobra.Command {
	var opts coffeesOptions

	cmd := &cobra.Command{
		Use:   "coffees",
		Short: "List current coffee prices",
		Long: `Print the current price listing, filtered and sorted locally.

Filters behave like the browser's filter inputs: name and source match
case-insensitive substrings, and price bounds that are not numbers are
ignored.`,
		Example: `  kahvi coffees --source s-kaupat --sort price
  kahvi coffees --min-price 5 --max-price 7 --sort weight --desc
  kahvi coffees --name mokka --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			source, closeSource, err := newSource(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer closeSource()

			return runCoffees(cmd.Context(), cmd.OutOrStdout(), source, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "filter by product name")
	cmd.Flags().StringVar(&opts.source, "source", "", "filter by store")
	cmd.Flags().StringVar(&opts.minPrice, "min-price", "", "lowest price in euros")
	cmd.Flags().StringVar(&opts.maxPrice, "max-price", "", "highest price in euros")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "", "sort column (name, price, weight, source)")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// controller builds a table controller with the flag filter and sort applied.
func (o coffeesOptions) controller() (*table.Controller, error) {
	key, err := table.ParseSortKey(o.sortBy)
	if err != nil {
		return nil, err
	}
	if o.desc && key == table.SortNone {
		return nil, errors.New("--desc requires --sort")
	}

	c := table.NewController()
	c.SetFilter(table.FieldName, o.name)
	c.SetFilter(table.FieldDataSource, o.source)
	c.SetFilter(table.FieldMinPrice, o.minPrice)
	c.SetFilter(table.FieldMaxPrice, o.maxPrice)

	c.ToggleSort(key)
	if o.desc {
		c.ToggleSort(key)
	}
	return c, nil
}

func runCoffees(ctx context.Context, w io.Writer, source service.DataSource, opts coffeesOptions) error {
	controller, err := opts.controller()
	if err != nil {
		return err
	}

	coffees, err := source.Coffees(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch coffees: %w", err)
	}
	controller.SetRecords(coffees)
	rows := controller.DerivedView()

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, cli.FormatInfo("No coffees match the filter"))
		return err
	}

	headers := make([]string, 0, len(table.SortKeys)+1)
	for _, key := range table.SortKeys {
		title := key.Title()
		if controller.Sort().Key == key {
			title += " " + controller.Sort().Indicator(key)
		}
		headers = append(headers, title)
	}
	headers = append(headers, "€/kg")

	if _, err := fmt.Fprintln(w, cli.RenderTable(headers, coffeeRows(rows))); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, cli.SubtitleStyle.Render(fmt.Sprintf("%d of %d coffees", len(rows), len(coffees))))
	return err
}

// coffeeRows formats records in SortKeys column order plus the per-kilo price.
func coffeeRows(coffees []model.Coffee) [][]string {
	rows := make([][]string, 0, len(coffees))
	for _, c := range coffees {
		perKilo := ""
		if v, ok := model.PerKilo(c.NormalPrice, c.NetWeight); ok {
			perKilo = model.FormatAmount(v)
		}
		rows = append(rows, []string{
			c.NameFinnish,
			model.FormatPrice(c.NormalPrice),
			model.FormatAmount(c.NetWeight) + " kg",
			c.DataSource,
			perKilo,
		})
	}
	return rows
}
