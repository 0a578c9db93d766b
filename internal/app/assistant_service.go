package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/textsplitter"

	"contractiq/internal/ai"
	"contractiq/internal/config"
	"contractiq/internal/index"
	"contractiq/internal/model"
	"contractiq/internal/pkg/pdfextract"
	"contractiq/internal/session"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrNoExtractableText = errors.New("no text could be extracted from the uploaded documents")
	ErrIndexUnavailable  = errors.New("document index unavailable, upload documents first")
)

const groundedSystemPrompt = "You are a contract analysis assistant. " +
	"Answer the user's question using only the supplied context. " +
	"If the context does not contain the answer, say that the uploaded documents do not cover it. Do not make up facts."

// AssistantService runs the document pipeline (extract, chunk, embed, index)
// and the retrieval-augmented question answering over a session's index.
type AssistantService struct {
	embedder  embeddings.Embedder
	chatModel llms.Model
	extract   func(io.Reader) (string, error)
	logger    zerolog.Logger

	chunkSize    int
	chunkOverlap int
	topK         int
	callTimeout  time.Duration
}

func NewAssistantService(embedder embeddings.Embedder, chatModel llms.Model, cfg *config.Config, logger zerolog.Logger) *AssistantService {
	return &AssistantService{
		embedder:     embedder,
		chatModel:    chatModel,
		extract:      pdfextract.ExtractText,
		logger:       logger,
		chunkSize:    cfg.RAG.ChunkSize,
		chunkOverlap: cfg.RAG.ChunkOverlap,
		topK:         cfg.RAG.TopK,
		callTimeout:  time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
	}
}

// UploadedFile is one file from a multipart upload.
type UploadedFile struct {
	Name string
	Data io.Reader
}

// IngestResult summarizes one ingest run.
type IngestResult struct {
	Documents  []model.Document `json:"documents"`
	ChunkCount int              `json:"chunk_count"`
	Notices    []string         `json:"notices,omitempty"`
	IndexReady bool             `json:"index_ready"`
}

// IngestDocuments runs the full pipeline for an uploaded batch. Unreadable
// files are excluded with a notice while their siblings continue. The batch
// always replaces the previous document set: the old index and transcript
// are dropped before anything else, so a failed ingest leaves the question
// panel disabled rather than answering from stale chunks.
func (s *AssistantService) IngestDocuments(ctx context.Context, sess *session.Session, files []UploadedFile) (*IngestResult, error) {
	if len(files) == 0 {
		return nil, ErrInvalidInput
	}

	sess.Lock()
	defer sess.Unlock()

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
	)

	now := time.Now()
	var (
		documents []model.Document
		chunks    []model.Chunk
		notices   []string
	)
	for _, f := range files {
		text, err := s.extract(f.Data)
		if err != nil {
			s.logger.Warn().Str("document", f.Name).Err(err).Msg("document excluded from batch")
			notices = append(notices, fmt.Sprintf("%s: document unreadable", f.Name))
			documents = append(documents, model.Document{Name: f.Name, Unreadable: true, UploadedAt: now})
			continue
		}

		text = strings.TrimSpace(text)
		doc := model.Document{Name: f.Name, CharCount: len(text), UploadedAt: now}
		if text != "" {
			// Chunking is per-document so every chunk keeps clean provenance.
			parts, err := splitter.SplitText(text)
			if err != nil {
				return nil, fmt.Errorf("split %s failed: %w", f.Name, err)
			}
			for i, part := range parts {
				if strings.TrimSpace(part) == "" {
					continue
				}
				chunks = append(chunks, model.Chunk{Document: f.Name, Seq: i, Text: part})
				doc.ChunkCount++
			}
		}
		documents = append(documents, doc)
	}

	sess.Documents = documents
	sess.Index = nil
	sess.Transcript = nil

	if len(chunks) == 0 {
		return nil, ErrNoExtractableText
	}

	ix, err := index.Build(ctx, s.embedder, chunks)
	if err != nil {
		return nil, fmt.Errorf("index construction failed: %w", err)
	}
	sess.Index = ix

	s.logger.Info().
		Str("session", sess.ID).
		Int("documents", len(documents)).
		Int("chunks", len(chunks)).
		Msg("document set indexed")

	return &IngestResult{
		Documents:  documents,
		ChunkCount: len(chunks),
		Notices:    notices,
		IndexReady: true,
	}, nil
}

// AskResult is one answered (or failed) exchange.
type AskResult struct {
	Answer  string         `json:"answer"`
	Failed  bool           `json:"failed,omitempty"`
	Sources []index.Result `json:"sources,omitempty"`
}

// Ask retrieves the top-k chunks for the question and asks the chat model
// for an answer grounded in them. A generation failure is not an error of
// this method: the exchange is recorded in the transcript with an error
// marker and the session stays usable for the next question.
func (s *AssistantService) Ask(ctx context.Context, sess *session.Session, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Index == nil {
		return nil, ErrIndexUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	var (
		answer  string
		sources []index.Result
	)
	results, err := sess.Index.Search(callCtx, question, s.topK)
	if err == nil {
		sources = results
		answer, err = ai.Complete(callCtx, s.chatModel, groundedSystemPrompt, buildPrompt(results, question))
	}

	now := time.Now()
	userTurn := model.ChatTurn{Role: model.RoleUser, Content: question, CreatedAt: now}
	assistantTurn := model.ChatTurn{Role: model.RoleAssistant, Content: answer, CreatedAt: now}
	if err != nil {
		s.logger.Warn().Str("session", sess.ID).Err(err).Msg("answer generation failed")
		assistantTurn.Content = "Error: " + err.Error()
		assistantTurn.Failed = true
		sources = nil
	}
	sess.Transcript = append(sess.Transcript, userTurn, assistantTurn)

	return &AskResult{
		Answer:  assistantTurn.Content,
		Failed:  assistantTurn.Failed,
		Sources: sources,
	}, nil
}

// Transcript returns an ordered copy of the session's chat turns.
func (s *AssistantService) Transcript(sess *session.Session) []model.ChatTurn {
	sess.Lock()
	defer sess.Unlock()
	return append([]model.ChatTurn(nil), sess.Transcript...)
}

// buildPrompt joins the retrieved chunks, similarity-descending, into the
// context block the model is told to stay inside.
func buildPrompt(results []index.Result, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for _, r := range results {
		b.WriteString(r.Chunk.Text)
		b.WriteString("\n---\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
