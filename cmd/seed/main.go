package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"medrag-be/internal/config"
	"medrag-be/internal/entity"
	"medrag-be/internal/repository/implementation"
	"medrag-be/pkg/database"
	"medrag-be/pkg/embedding"
)

// Seeds the fragment corpus: reads the case chunks file, embeds every chunk,
// and bulk-inserts them with their corpus position. Run once after migrate;
// the corpus is read-only at runtime.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	raw, err := os.ReadFile(cfg.Rag.CorpusPath)
	if err != nil {
		log.Fatalf("Error: Failed to read corpus file %s: %v", cfg.Rag.CorpusPath, err)
	}

	var chunks []string
	if err := json.Unmarshal(raw, &chunks); err != nil {
		log.Fatalf("Error: Corpus file must be a JSON array of strings: %v", err)
	}
	log.Printf("Loaded %d corpus chunks from %s", len(chunks), cfg.Rag.CorpusPath)

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	fragments := make([]*entity.FragmentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		emb, err := provider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Fatalf("Error: Failed to embed chunk %d: %v", i, err)
		}
		fragments = append(fragments, &entity.FragmentEmbedding{
			ChunkIndex:     i,
			Document:       chunk,
			EmbeddingValue: emb.Embedding.Values,
		})
		if (i+1)%50 == 0 {
			log.Printf("Embedded %d/%d chunks", i+1, len(chunks))
		}
	}

	repo := implementation.NewFragmentRepository(db)
	if err := repo.CreateBulk(context.Background(), fragments); err != nil {
		log.Fatalf("Error: Failed to insert fragments: %v", err)
	}

	log.Printf("✅ Seeded %d fragments", len(fragments))
}
