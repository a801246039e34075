/*
Package observability provides tools for monitoring the Inertia prop engine.

Metrics translates lifecycle hooks into Prometheus series, and Logging turns the
same hooks into structured log lines. Both are plain domain.LifecycleHooks and
can be merged with Combine.
*/
package observability
