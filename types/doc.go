// Package types defines the shared data model of videoflow: rendering
// capabilities, quality tiers, scripts, generation requests and results,
// the provider contract, and structured errors.
//
// Every other package in the module depends on types; types itself has
// no dependencies inside the module.
package types
