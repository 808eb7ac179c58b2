package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/kahvi/internal/cli"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/spf13/cobra"
)

func endpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the routes served by the coffee API",
		Args:  cobra.NoArgs,
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

			return runEndpoints(cmd.Context(), cmd.OutOrStdout(), source)
		},
	}
}

func runEndpoints(ctx context.Context, w io.Writer, source service.DataSource) error {
	list, err := source.Endpoints(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch endpoints: %w", err)
	}

	rows := make([][]string, 0, len(list.AvailableEndpoints))
	for _, e := range list.AvailableEndpoints {
		rows = append(rows, []string{e.Path, e.Name, e.MethodList()})
	}

	_, err = fmt.Fprintln(w, cli.FormatTitle(list.Message)+"\n"+cli.RenderTable([]string{"Path", "Name", "Methods"}, rows))
	return err
}
