// Package effect estimates treatment effects from a full table and from a
// matched dataset.
//
// Unadjusted compares outcome means over the whole table. Paired runs a
// paired t-test on the outcome differences of matched pairs. Balance reports
// the standardized mean difference of every confounder before and after
// matching.
package effect
