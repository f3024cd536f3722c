package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPathCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Estimate the noise variance along a lambda path",
		Long: `Fit the penalized regression at every lambda of a path and report the
variance estimates at each one.

The path is log-spaced from lambda_max, where every coefficient is zero, down
to flmin * lambda_max, unless --lambdas gives it explicitly.`,
		Example: `  # Natural lasso path of 50 lambdas
  natural path --data data.csv --nlam 50

  # Organic lasso at two fixed lambdas, JSON output
  natural path --data data.csv --method organic --lambdas 0.2,0.05 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			est, ds, err := flags.prepare(cmd, "path")
			if err != nil {
				return err
			}

			res, err := est.Path(cmd.Context(), ds.X, ds.Y)
			if err != nil {
				return err
			}
			log.Debug().Int("lambdas", len(res.Lambdas)).Msg("Path complete")

			view := pathView{Method: res.Method.String()}
			for i, e := range res.Estimates {
				view.Path = append(view.Path, newEstimateView(e, res.Fits[i], ds.Features))
			}
			return emit(cmd.OutOrStdout(), view, view.text)
		},
	}

	flags.register(cmd, "natural")
	return cmd
}
