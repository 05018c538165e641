package engine

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Embedding is the boundary to the external batch embedding function. The
// function scans the backlog of unvectorized articles and writes vectors in
// place; this gateway only triggers it.
type Embedding interface {
	TriggerBatch(ctx context.Context) error
}

type pgEmbedding struct {
	db *gorm.DB
}

// NewPGEmbedding creates an embedding gateway backed by the in-database engine function
func NewPGEmbedding(db *gorm.DB) Embedding {
	return &pgEmbedding{db: db}
}

func (g *pgEmbedding) TriggerBatch(ctx context.Context) error {
	err := g.db.WithContext(ctx).Exec("SELECT hotd_embed_articles_batch()").Error
	if err != nil {
		return fmt.Errorf("batch embedding failed: %w", err)
	}
	return nil
}
