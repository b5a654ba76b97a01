// Package stats computes descriptive statistics over numeric columns.
//
// Engine adapts Float and Integer columns to the Statistics capability set.
// Float quantiles interpolate linearly between ranks while Integer quantiles
// use the nearest rank, so the same values can yield different results per
// kind. Medians are found with Select, an iterative three-way quickselect
// whose pivot strategy is injectable. Cache memoizes the level-free metrics
// per column name.
package stats
