package catchphrase

import (
	"context"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
)

// StaticProvider returns the default phrase for every facility. It stands in
// when no text generation backend is configured.
type StaticProvider struct{}

var _ providers.CatchphraseProvider = StaticProvider{}

// GenerateCatchphrases returns one default phrase per facility
func (StaticProvider) GenerateCatchphrases(_ context.Context, facilities []entities.ScoredFacility, _ entities.TasteVector) ([]string, error) {
	phrases := make([]string, len(facilities))
	for i := range phrases {
		phrases[i] = entities.DefaultCatchphrase
	}
	return phrases, nil
}
