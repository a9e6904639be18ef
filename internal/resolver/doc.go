// Package resolver derives service connection URLs from an override and a set of
// credential components. It performs pure string composition: no I/O, no validation,
// and no access to the process environment.
package resolver
