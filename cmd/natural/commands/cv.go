package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCVCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Estimate the noise variance at the cross-validated lambda",
		Long: `Select lambda by K-fold cross-validation of the held-out mean squared
error, refit on all observations at the selected lambda, and report the
variance estimates of that fit.

Folds come from a seeded permutation, so a fixed --seed reproduces the
selection regardless of --workers.`,
		Example: `  # Natural lasso with 10 folds
  natural cv --data data.csv --folds 10

  # Organic lasso, response column named "y"
  natural cv --data data.csv --response y --method organic`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			est, ds, err := flags.prepare(cmd, "cv")
			if err != nil {
				return err
			}

			res, err := est.CrossValidate(cmd.Context(), ds.X, ds.Y)
			if err != nil {
				return err
			}
			log.Debug().Int("index", res.Index).Float64("lambda", res.Lambda).Msg("Cross-validation complete")

			view := cvView{
				Method:    res.Method.String(),
				Folds:     res.Folds,
				Lambda:    number(res.Lambda),
				Lambda1SE: number(res.Lambda1SE),
				Selected:  newEstimateView(res.Estimate, res.Fit, ds.Features),
			}
			for _, pt := range res.Curve {
				view.Curve = append(view.Curve, cvPointView{
					Lambda: number(pt.Lambda),
					Mean:   number(pt.Mean),
					SE:     number(pt.SE),
				})
			}
			return emit(cmd.OutOrStdout(), view, view.text)
		},
	}

	flags.register(cmd, "natural")
	return cmd
}
