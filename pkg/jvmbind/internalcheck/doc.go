// Package internalcheck provides internal validation and testing utilities.
//
// This package contains consistency checks enforced over the jvmbind source
// tree itself. It is not intended for external use and the API may change
// without notice.
//
// # Internal Use Only
//
// This package is part of the internal implementation and should not be
// imported by applications using jvmbind. Use the public API provided by
// pkg/jvmbind and its subpackages instead.
package internalcheck
