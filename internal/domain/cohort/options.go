// Package cohort rolls member activity up into cohort and entity metrics.
package cohort

// Default aggregation configuration.
const (
	defaultTopN = 3
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithCategoryRules replaces the interest-to-category rules.
func WithCategoryRules(rules []CategoryRule) Option {
	return func(a *Aggregator) {
		if len(rules) > 0 {
			a.categories = compileRules(rules)
		}
	}
}

// WithTopN sets how many categories the breakdown keeps.
func WithTopN(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}
