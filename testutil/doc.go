// Package testutil contains shared helpers and mocks for videoflow
// tests. Nothing in here is part of the public API.
package testutil
