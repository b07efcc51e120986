package providers

import (
	"context"
	"errors"

	"github.com/yurift/drift/internal/domain/entities"
)

// CatchphraseProvider generates one short phrase per facility for a taste
// vector. Implementations may fail or return a different number of phrases
// than facilities; callers must handle both.
type CatchphraseProvider interface {
	GenerateCatchphrases(ctx context.Context, facilities []entities.ScoredFacility, taste entities.TasteVector) ([]string, error)
}

// ErrCatchphraseUnauthorized is returned when the text generation backend
// rejects the configured credentials.
var ErrCatchphraseUnauthorized = errors.New("catchphrase provider unauthorized")
