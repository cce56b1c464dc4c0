package cli

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/featureschema/fschema/schema"

	"github.com/spf13/cobra"
)

// ErrInvalidConfigs is returned when at least one validated file failed.
var ErrInvalidConfigs = errors.New("invalid model configs")

func newValidateCmd(app func() *App) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate the feature preprocessing of model config files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := app().Loader.ValidateFiles(cmd.Context(), args, workers)

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Err == nil {
					fmt.Fprintf(out, "ok    %s (%d features)\n", r.Path, len(r.Config.Features))
					continue
				}
				failed++
				fes := schema.FieldErrors(r.Err)
				if len(fes) == 0 {
					fmt.Fprintf(out, "FAIL  %s: %v\n", r.Path, r.Err)
					continue
				}
				fmt.Fprintf(out, "FAIL  %s\n", r.Path)
				for _, fe := range fes {
					fmt.Fprintf(out, "      %v\n", fe)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files: %w", failed, len(results), ErrInvalidConfigs)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "files validated concurrently (0 = GOMAXPROCS)")
	return cmd
}
