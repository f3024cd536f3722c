package commands

import (
	"github.com/spf13/cobra"
)

func newPivotalCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "pivotal",
		Short: "Estimate the noise variance with the organic lasso at pivotal lambdas",
		Long: `Fit the organic lasso at two lambdas that do not depend on the response:

  lambda1 = log(p) / n
  lambda2 = mean over Monte Carlo replicates of (max_j |x_j'e| / n)^2,
            with e standard normal

and report the variance estimates of both fits. --quantile replaces the
mean with an empirical quantile.`,
		Example: `  # Default 200 replicates
  natural pivotal --data data.csv

  # 1000 replicates, 95% quantile, 8 workers
  natural pivotal --data data.csv --replicates 1000 --quantile 0.95 -w 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			est, ds, err := flags.prepare(cmd, "pivotal")
			if err != nil {
				return err
			}

			res, err := est.Pivotal(cmd.Context(), ds.X, ds.Y)
			if err != nil {
				return err
			}

			view := pivotalView{
				Replicates: res.Replicates,
				Lambda1:    newEstimateView(res.Estimate1, res.Fit1, ds.Features),
				Lambda2:    newEstimateView(res.Estimate2, res.Fit2, ds.Features),
			}
			return emit(cmd.OutOrStdout(), view, view.text)
		},
	}

	flags.register(cmd, "organic")
	return cmd
}
