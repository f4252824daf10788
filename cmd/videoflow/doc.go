// Command videoflow runs the generation engine with stub providers:
// it loads configuration, exposes Prometheus metrics, submits a sample
// script, and polls the job to completion. It exists to exercise the
// full pipeline outside of tests.
package main
