package progress

import (
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewNopSink creates a progress sink that discards everything. Used for
// --json and non-interactive runs.
func NewNopSink() usecase.ProgressSink {
	return usecase.NopProgress{}
}
