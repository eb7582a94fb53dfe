// Package repository holds pipeline state providers backed by the stores the
// pipeline writes to.
package repository

import (
	"github.com/okian/pipedash/internal/domain/pipeline"
)

// Compile-time checks that every provider satisfies the capability interface.
var (
	_ pipeline.StateProvider = (*PlaceholderProvider)(nil)
	_ pipeline.StateProvider = (*FileProvider)(nil)
	_ pipeline.StateProvider = (*PostgresProvider)(nil)
)
