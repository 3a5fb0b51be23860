// Package mock provides deterministic in-memory implementations of the ai
// package interfaces for testing. Mocks expose function fields for custom
// behavior injection and record calls for assertions.
package mock
