// Package stub provides an in-process rendering provider that
// simulates asynchronous video generation. It exists for demos, tests,
// and as the reference implementation of the provider contract; real
// encoding backends live outside this module.
package stub
