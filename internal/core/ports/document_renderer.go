package ports

import (
	"context"

	"freight/internal/core/domain/model/dangerousgoods"
)

// DocumentRenderer turns a dangerous goods document description into bytes.
// Merging the rendered documents into one file is left to the caller.
type DocumentRenderer interface {
	Render(ctx context.Context, doc dangerousgoods.Document) (dangerousgoods.RenderedDocument, error)
}
