package app

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"contractiq/internal/config"
	"contractiq/internal/dataset"
	"contractiq/internal/pkg/pdfextract"
	"contractiq/internal/session"
)

// keywordEmbedder scores texts by keyword occurrence so that exact keyword
// matches dominate similarity. Deterministic by construction.
type keywordEmbedder struct {
	keywords []string
}

func (e *keywordEmbedder) embed(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.keywords)+1)
	for i, kw := range e.keywords {
		vec[i] = float32(strings.Count(lower, kw))
	}
	vec[len(e.keywords)] = 0.1
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	scale := float32(1 / math.Sqrt(float64(norm)))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (e *keywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// stubChatModel satisfies llms.Model and can be switched into failure mode.
type stubChatModel struct {
	answer string
	err    error
	calls  int
}

func (m *stubChatModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.answer}},
	}, nil
}

func (m *stubChatModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{RequestTimeoutSeconds: 5},
		RAG: config.RAGConfig{ChunkSize: 120, ChunkOverlap: 20, TopK: 3},
	}
}

// newTestService wires the assistant with stub collaborators. The extractor
// treats content starting with "!!" as an unreadable document.
func newTestService(model llms.Model) *AssistantService {
	embedder := &keywordEmbedder{keywords: []string{"payment", "net 30", "terminate", "liability", "warehouse"}}
	svc := NewAssistantService(embedder, model, testConfig(), zerolog.Nop())
	svc.extract = func(r io.Reader) (string, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(string(b), "!!") {
			return "", pdfextract.ErrDocumentUnreadable
		}
		return string(b), nil
	}
	return svc
}

func upload(name, content string) UploadedFile {
	return UploadedFile{Name: name, Data: strings.NewReader(content)}
}

const contractText = "Payment terms are Net 30 days from receipt of invoice. " +
	"Either party may terminate this agreement with 90 days written notice. " +
	"Liability is capped at twelve months of fees paid. " +
	"The warehouse facility operates around the clock on business days."

func TestIngestChunksPerDocument(t *testing.T) {
	svc := newTestService(&stubChatModel{answer: "ok"})
	sess := session.NewStore().Create("")

	result, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{
		upload("msa.pdf", contractText),
		upload("sow.pdf", "The statement of work covers warehouse staffing and payment milestones."),
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}

	if result.ChunkCount < 2 {
		t.Errorf("ChunkCount = %d, want at least one chunk per document", result.ChunkCount)
	}
	if !result.IndexReady || sess.Index == nil {
		t.Error("index not built for batch with extractable text")
	}
	for _, doc := range result.Documents {
		if doc.ChunkCount < 1 {
			t.Errorf("document %s produced no chunks", doc.Name)
		}
	}
	if sess.Index.Size() != result.ChunkCount {
		t.Errorf("index size %d != chunk count %d", sess.Index.Size(), result.ChunkCount)
	}
}

func TestIngestChunkBoundsAndCoverage(t *testing.T) {
	svc := newTestService(&stubChatModel{answer: "ok"})
	sess := session.NewStore().Create("")

	text := strings.TrimSpace(strings.Repeat("payment schedule clause four two. ", 40))
	_, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{upload("long.pdf", text)})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}

	results, err := sess.Index.Search(context.Background(), "payment", sess.Index.Size())
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, r := range results {
		if len(r.Chunk.Text) > 120 {
			t.Errorf("chunk exceeds configured size: %d chars", len(r.Chunk.Text))
		}
		if !strings.Contains(text, r.Chunk.Text) {
			t.Errorf("chunk %q is not a substring of the source text", r.Chunk.Text)
		}
	}
}

func TestIngestNoExtractableText(t *testing.T) {
	svc := newTestService(&stubChatModel{answer: "ok"})
	sess := session.NewStore().Create("")

	_, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{
		upload("scan1.pdf", ""),
		upload("scan2.pdf", "   \n  "),
	})
	if !errors.Is(err, ErrNoExtractableText) {
		t.Fatalf("IngestDocuments() error = %v, want ErrNoExtractableText", err)
	}
	if sess.Index != nil {
		t.Error("index must not be constructed over zero chunks")
	}

	if _, err := svc.Ask(context.Background(), sess, "What are the payment terms?"); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("Ask() error = %v, want ErrIndexUnavailable", err)
	}
}

func TestIngestUnreadableSiblingContinues(t *testing.T) {
	svc := newTestService(&stubChatModel{answer: "ok"})
	sess := session.NewStore().Create("")

	result, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{
		upload("a.pdf", contractText),
		upload("broken.pdf", "!!corrupt"),
		upload("b.pdf", "Termination requires liability review by legal."),
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}

	if len(result.Documents) != 3 {
		t.Fatalf("Documents = %d, want 3 (unreadable file still counted)", len(result.Documents))
	}
	if len(result.Notices) != 1 || !strings.Contains(result.Notices[0], "broken.pdf") {
		t.Errorf("Notices = %v, want one unreadable notice for broken.pdf", result.Notices)
	}

	readable := 0
	for _, doc := range result.Documents {
		if doc.Unreadable {
			if doc.ChunkCount != 0 {
				t.Errorf("unreadable document %s contributed chunks", doc.Name)
			}
			continue
		}
		readable++
	}
	if readable != 2 {
		t.Errorf("readable documents = %d, want 2", readable)
	}

	// Row count follows upload count, including the unreadable file.
	snapshot := NewDashboardService(dataset.Default()).Snapshot(sess)
	if snapshot.RowCount != 3 {
		t.Errorf("dashboard RowCount = %d, want 3", snapshot.RowCount)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	model := &stubChatModel{answer: "ok"}
	svc := newTestService(model)
	sess := session.NewStore().Create("")

	if _, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{upload("a.pdf", contractText)}); err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	calls := model.calls

	for _, q := range []string{"", "   ", "\n\t "} {
		if _, err := svc.Ask(context.Background(), sess, q); !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Ask(%q) error = %v, want ErrEmptyQuestion", q, err)
		}
	}
	if model.calls != calls {
		t.Error("empty question must not invoke the chat model")
	}
	if len(svc.Transcript(sess)) != 0 {
		t.Error("empty question must not append transcript turns")
	}
}

func TestAskRetrievesPaymentTermChunk(t *testing.T) {
	svc := newTestService(&stubChatModel{answer: "Net 30 per the agreement."})
	sess := session.NewStore().Create("")

	if _, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{upload("msa.pdf", contractText)}); err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}

	result, err := svc.Ask(context.Background(), sess, "What is the payment term?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if result.Failed {
		t.Fatalf("Ask() failed unexpectedly: %s", result.Answer)
	}
	if len(result.Sources) == 0 || !strings.Contains(result.Sources[0].Chunk.Text, "Net 30") {
		t.Errorf("top retrieved chunk should contain Net 30, got %+v", result.Sources)
	}

	turns := svc.Transcript(sess)
	if len(turns) != 2 {
		t.Fatalf("transcript has %d turns, want 2", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("turn roles = %s/%s, want user/assistant", turns[0].Role, turns[1].Role)
	}
}

func TestAskFailureRecordedAndRecoverable(t *testing.T) {
	model := &stubChatModel{err: errors.New("rate limited")}
	svc := newTestService(model)
	sess := session.NewStore().Create("")

	if _, err := svc.IngestDocuments(context.Background(), sess, []UploadedFile{upload("msa.pdf", contractText)}); err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}

	result, err := svc.Ask(context.Background(), sess, "What is the liability cap?")
	if err != nil {
		t.Fatalf("Ask() must not error on generation failure, got %v", err)
	}
	if !result.Failed || !strings.HasPrefix(result.Answer, "Error:") {
		t.Errorf("failed exchange not error-marked: %+v", result)
	}

	turns := svc.Transcript(sess)
	if len(turns) != 2 {
		t.Fatalf("transcript has %d turns after failure, want exactly 2", len(turns))
	}
	if !turns[1].Failed || !strings.HasPrefix(turns[1].Content, "Error:") {
		t.Errorf("assistant turn not error-marked: %+v", turns[1])
	}

	// Session stays usable: next question succeeds without a retry policy.
	model.err = nil
	model.answer = "Twelve months of fees."
	result, err = svc.Ask(context.Background(), sess, "What is the liability cap?")
	if err != nil {
		t.Fatalf("Ask() after recovery error = %v", err)
	}
	if result.Failed {
		t.Errorf("Ask() after recovery still failed: %s", result.Answer)
	}
	if got := len(svc.Transcript(sess)); got != 4 {
		t.Errorf("transcript has %d turns, want 4", got)
	}
}

func TestReuploadReplacesIndexAndResetsTranscript(t *testing.T) {
	svc := newTestService(&stubChatModel{answer: "ok"})
	sess := session.NewStore().Create("")

	ctx := context.Background()
	if _, err := svc.IngestDocuments(ctx, sess, []UploadedFile{upload("old.pdf", contractText)}); err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	if _, err := svc.Ask(ctx, sess, "What is the payment term?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	oldIndex := sess.Index

	if _, err := svc.IngestDocuments(ctx, sess, []UploadedFile{upload("new.pdf", "Warehouse liability is shared under the new terms.")}); err != nil {
		t.Fatalf("second IngestDocuments() error = %v", err)
	}
	if sess.Index == oldIndex {
		t.Error("new upload must replace the index, not reuse it")
	}
	if len(svc.Transcript(sess)) != 0 {
		t.Error("new upload must reset the transcript")
	}
}
