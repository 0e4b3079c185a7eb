// Package metrics exports GraphQL operation and store size metrics to
// Prometheus.
//
// Metrics registered by New:
//
//	blogql_graphql_operations_total{operation,status}   counter, status is ok or error
//	blogql_graphql_operation_duration_seconds{operation} histogram
//	blogql_store_records{kind}                           gauge, read from the store on scrape
package metrics
