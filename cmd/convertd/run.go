package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"convertd/pkg/types"
)

// conversionFlags are shared by `run` and `convert`.
type conversionFlags struct {
	base   string
	name   string
	system string
	legacy bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.base, "base", "", "Base model path as seen by the merge service")
	cmd.Flags().StringVar(&f.name, "name", "", "Name to register in Ollama")
	cmd.Flags().StringVar(&f.system, "system", "", "System prompt for the Modelfile")
	cmd.Flags().BoolVar(&f.legacy, "legacy", false, "Request the legacy export format (accepted, currently not forwarded)")
}

func (f *conversionFlags) request() types.ConvertAndLoadRequest {
	return types.ConvertAndLoadRequest{
		BaseModelPath:   f.base,
		UseLegacyFormat: f.legacy,
		NewModelName:    f.name,
		SystemPrompt:    f.system,
	}
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var flags conversionFlags
	cmd := &cobra.Command{
		Use:   "run <model::run>",
		Short: "Run the conversion pipeline in-process against the local Docker daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, exec, err := newDockerManager(opts)
			if err != nil {
				return err
			}
			defer exec.Close()

			res, err := mgr.ConvertAndLoad(cmd.Context(), args[0], flags.request())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted and loaded model: %s (%s as %s in %s)\n",
				args[0], res.Paths.HostGGUF, res.ModelName, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
