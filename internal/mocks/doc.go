// Package mocks provides hand-rolled test doubles for the store and
// service interfaces. Each mock offers function fields for customizable
// behavior plus a simple in-memory default implementation.
package mocks
