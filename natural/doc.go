// Package natural estimates the noise variance of a high-dimensional linear
// model y = Xb + e from penalized regression fits.
//
// Two estimator families share the same path and cross-validation machinery:
//
//   - Natural lasso: sig_obj = rss/n + 2*lambda*||b||_1
//   - Organic lasso: sig_obj = rss/n + 2*lambda*||b||_1^2
//
// Alongside sig_obj every fit also yields the naive estimator rss/n and the
// degrees-of-freedom corrected estimator rss/(n - df).
//
// An Estimator is configured once with functional options and then used for
// path fits, K-fold cross-validation, or (organic only) the pivotal tuning
// parameters log(p)/n and a Monte Carlo estimate of ||X'e||_inf^2 / n^2:
//
//	est, err := natural.New(natural.Natural, natural.WithFolds(5), natural.WithSeed(1))
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := est.CrossValidate(ctx, X, y)
//	fmt.Println(res.Lambda, res.Estimate.Obj, res.Estimate.DF)
//
// All randomness comes from the configured seed, so repeated calls with the
// same inputs and options return identical results regardless of the number
// of workers. An Estimator holds no state between calls and is safe for
// concurrent use.
package natural
