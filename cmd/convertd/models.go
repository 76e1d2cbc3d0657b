package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"convertd/internal/client"
)

func defaultServer() string {
	if v := os.Getenv("CONVERTD_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8000"
}

func newModelsCmd(opts *globalOptions) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models known to a convertd server",
	}
	cmd.PersistentFlags().StringVar(&server, "server", defaultServer(), "convertd server URL")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "finetuned",
			Short: "Training runs with a LoRA adapter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := client.New(server).ListFinetuned(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(ids))
				for _, id := range ids {
					rows = append(rows, []string{id})
				}
				renderTable(cmd.OutOrStdout(), []string{"TRAINING RUN"}, rows)
				return nil
			},
		},
		&cobra.Command{
			Use:   "gguf",
			Short: "Converted GGUF files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				models, err := client.New(server).ListGGUF(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(models))
				for _, m := range models {
					rows = append(rows, []string{m.ModelName, m.Filename})
				}
				renderTable(cmd.OutOrStdout(), []string{"NAME", "FILE"}, rows)
				return nil
			},
		},
		&cobra.Command{
			Use:   "ollama",
			Short: "Models registered in the serving runtime",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := client.New(server).ListOllama(cmd.Context())
				if err != nil {
					return err
				}
				// rows are raw whitespace-split columns; no header survives
				renderTable(cmd.OutOrStdout(), nil, rows)
				return nil
			},
		},
	)
	return cmd
}

func newConvertCmd(opts *globalOptions) *cobra.Command {
	var (
		server string
		flags  conversionFlags
	)
	cmd := &cobra.Command{
		Use:   "convert <model::run>",
		Short: "Trigger a conversion on a convertd server and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.log.Debug().Str("server", server).Str("training_run_id", args[0]).Msg("convert request")
			msg, err := client.New(server).ConvertAndLoad(cmd.Context(), args[0], flags.request())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", defaultServer(), "convertd server URL")
	flags.register(cmd)
	return cmd
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	if len(header) > 0 {
		table.SetHeader(header)
	}
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}
