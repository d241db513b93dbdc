package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/safeguard-backend/internal/llm"
	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/rag"
)

// Legal assistant tuning
const (
	ChunkSize    = 800
	ChunkOverlap = 100
	embedBatch   = 32
)

var legalGeneration = llm.Options{Temperature: 0.7, TopP: 0.8, TopK: 40, MaxTokens: 1024}

const (
	notInitializedAnswer = "Sorry, the legal assistant is not properly initialized. " +
		"Please check that legal documents are available and the language model is configured."
	generationFailedAnswer = "An error occurred while processing your question. " +
		"Please try again or contact support if the issue persists."
)

// LegalHealth reports the assistant state
type LegalHealth struct {
	Status               string `json:"status"`
	DocumentsCount       int    `json:"documents_count"`
	GeneratorInitialized bool   `json:"generator_initialized"`
}

// LegalService answers legal questions from the indexed documents
type LegalService struct {
	generator llm.Generator
	embedder  llm.Embedder
	queries   *rag.QueryEmbedder
	topK      int
	maxCtx    int
	log       *zap.Logger

	mu    sync.RWMutex
	index *rag.Index
}

// NewLegalService creates the assistant. generator and embedder may be nil, in which
// case Ask returns the not-initialised answer.
func NewLegalService(generator llm.Generator, embedder llm.Embedder, topK, maxContext int, log *zap.Logger) *LegalService {
	s := &LegalService{
		generator: generator,
		embedder:  embedder,
		topK:      topK,
		maxCtx:    maxContext,
		log:       log,
		index:     rag.NewIndex(nil),
	}
	if embedder != nil {
		s.queries = rag.NewQueryEmbedder(embedder, 30*time.Minute)
	}
	return s
}

// LoadDocuments chunks and embeds every document in dir and swaps in the new index
func (s *LegalService) LoadDocuments(ctx context.Context, dir string) error {
	docs, err := rag.LoadDocuments(dir, s.log)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		s.log.Warn("No legal documents found", zap.String("dir", dir))
		return nil
	}
	if s.embedder == nil {
		s.log.Warn("No embedder configured, legal documents not indexed")
		return nil
	}

	chunks, err := rag.ChunkDocuments(docs, rag.NewSplitter(ChunkSize, ChunkOverlap))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(chunks); start += embedBatch {
		end := start + embedBatch
		if end > len(chunks) {
			end = len(chunks)
		}
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Text)
			}
			vecs, err := s.embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			for i, v := range vecs {
				chunks[start+i].Vector = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.index = rag.NewIndex(chunks)
	s.mu.Unlock()

	s.log.Info("Legal documents indexed", zap.Int("documents", len(docs)), zap.Int("chunks", len(chunks)))
	return nil
}

func (s *LegalService) currentIndex() *rag.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Ask answers question. Provider failures produce an answer with Error set rather than an error.
func (s *LegalService) Ask(ctx context.Context, question string) (*models.LegalAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, models.Validation("Question cannot be empty")
	}

	answer := &models.LegalAnswer{Question: question, Sources: []string{}}
	if s.generator == nil {
		answer.Answer = notInitializedAnswer
		answer.Error = true
		return answer, nil
	}

	var retrieved []rag.Chunk
	if idx := s.currentIndex(); idx.Len() > 0 && s.queries != nil {
		vec, err := s.queries.EmbedQuery(ctx, question)
		if err != nil {
			s.log.Error("Failed to embed question", zap.Error(err))
			answer.Answer = generationFailedAnswer
			answer.Error = true
			return answer, nil
		}
		retrieved = idx.TopK(vec, s.topK)
	}

	prompt := rag.BuildPrompt(rag.BuildContext(retrieved, s.maxCtx), question)
	text, err := s.generator.Generate(ctx, prompt, legalGeneration)
	if err != nil {
		s.log.Error("Failed to generate legal answer", zap.Error(err))
		answer.Answer = generationFailedAnswer
		answer.Error = true
		return answer, nil
	}

	answer.Answer = strings.TrimSpace(text)
	answer.Sources = rag.Sources(retrieved)
	return answer, nil
}

// Health reports whether the assistant can answer
func (s *LegalService) Health() LegalHealth {
	h := LegalHealth{
		DocumentsCount:       s.currentIndex().Len(),
		GeneratorInitialized: s.generator != nil,
		Status:               "unhealthy",
	}
	if h.GeneratorInitialized {
		h.Status = "healthy"
	}
	return h
}
