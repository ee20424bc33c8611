package dispatch

import (
	"log/slog"

	"github.com/dmitrymomot/psfs/core/failure"
	"github.com/dmitrymomot/psfs/core/logger"
)

// ErrorRecord is the logged view of a caught failure.
type ErrorRecord struct {
	Message string
	File    string
	Line    int
	Kind    failure.Kind
}

// NewErrorRecord describes err.
func NewErrorRecord(err error) ErrorRecord {
	rec := ErrorRecord{Kind: failure.KindOf(err)}
	if err != nil {
		rec.Message = err.Error()
	}
	rec.File, rec.Line, _ = failure.Location(err)
	return rec
}

// Attrs returns the record as log attributes.
func (r ErrorRecord) Attrs() []any {
	return []any{
		slog.String("message", r.Message),
		logger.Type(r.Kind.String()),
		logger.Source(r.File, r.Line),
	}
}
