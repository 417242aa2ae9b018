// Package propensity estimates treatment propensity scores.
//
// Fit trains an L2-regularised logistic regression (unpenalised intercept)
// with Newton–Raphson / IRLS steps solved by a Cholesky factorisation of the
// Hessian. The trained Model is a plain value: callers own it and pass it to
// PredictProba or Scores explicitly.
//
//	model, err := propensity.Fit(ctx, tbl.Features(), tbl.Labels())
//	raw, logit, err := propensity.Scores(model, tbl.Features(), 0)
//
// Solver non-convergence is reported as a *FitError and must be treated as
// fatal by callers.
package propensity
