// Package psmatch estimates a treatment effect by propensity score matching
// on synthetic confounded data with a known true effect.
//
// A study runs four stages, each consuming the immutable output of the
// previous one:
//
//  1. dataset.Generate draws N samples with
//     outcome = effect*treatment + sum(confounders) + noise.
//  2. propensity.Fit estimates P(treated | confounders) with an
//     L2-regularised logistic regression.
//  3. match.Matcher pairs treated and control units greedily within a
//     caliper, once on the raw propensity and once on its logit.
//  4. effect.Paired runs a paired t-test on the matched outcome differences.
//
// # Quick Start
//
//	report, err := psmatch.Run(ctx, psmatch.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(report)
//
// # Matching Semantics
//
// Treated units are visited in table order and each takes the nearest unused
// control. Equal distances resolve to the control that comes first in table
// order. A pair is accepted only if its distance is within the caliper, and
// accepted pairs are never revisited. The result is greedy, not optimal, and
// raw and logit matching can keep different pairs because the caliper applies
// in each score space.
//
// # Errors
//
// Invalid configurations fail before any computation with a *ConfigError
// (errors.Is(err, ErrInvalidConfig)). A propensity fit that does not
// converge is reported as *FitError (errors.Is(err, ErrModelFit)). Empty
// groups and fewer than two matched pairs are not errors; the affected
// statistics are NaN.
//
// # Export
//
// Reports can be stored in any blobstore.Store:
//
//	exp := psmatch.NewExporter(blobstore.NewLocalStore("./runs"), psmatch.ExportConfig{
//	    Compression: psmatch.CompressionZSTD,
//	})
//	name, err := exp.Export(ctx, report)
package psmatch
