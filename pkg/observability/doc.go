/*
Package observability turns fill and submission lifecycle events into
Prometheus metrics and structured log records.

Both are delivered as domain.LifecycleHooks and can be combined:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Combine(observability.LogHooks(logger))
*/
package observability
