package rag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSplitterOverlap(t *testing.T) {
	chunks, err := NewSplitter(10, 4).Split("aaa bbb ccc ddd eee")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa bbb", "bbb ccc", "ccc ddd", "ddd eee"}, chunks)
}

func TestSplitterFallsBackToCharacters(t *testing.T) {
	chunks, err := NewSplitter(5, 0).Split("abcdefghij")
	require.NoError(t, err)
	assert.Equal(t, []string{"abcde", "fghij"}, chunks)
}

func TestSplitterShortText(t *testing.T) {
	s := NewSplitter(800, 100)

	chunks, err := s.Split("Section 498A IPC.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Section 498A IPC."}, chunks)

	chunks, err = s.Split("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitterRespectsChunkSize(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "Paragraph %d explains a right. It has two sentences about procedure.\n\n", i)
		if i%7 == 0 {
			sb.WriteString(strings.Repeat("longword ", 120))
			sb.WriteString("\n\n")
		}
	}

	chunks, err := NewSplitter(800, 100).Split(sb.String())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 800)
	}
	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, "Paragraph 0 explains")
	assert.Contains(t, joined, "Paragraph 59 explains")
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 1}))
}

func TestIndexTopK(t *testing.T) {
	idx := NewIndex([]Chunk{
		{Source: "a.txt", Index: 1, Vector: []float32{1, 0}},
		{Source: "a.txt", Index: 2, Vector: []float32{0.7, 0.7}},
		{Source: "b.txt", Index: 1, Vector: []float32{0, 1}},
	})

	top := idx.TopK([]float32{0, 1}, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b.txt", top[0].Source)
	assert.Equal(t, 2, top[1].Index)

	assert.Len(t, idx.TopK([]float32{1, 0}, 10), 3)
	assert.Nil(t, NewIndex(nil).TopK([]float32{1}, 5))
}

func TestBuildContext(t *testing.T) {
	chunks := []Chunk{
		{Text: strings.Repeat("a", 10)},
		{Text: strings.Repeat("b", 10)},
		{Text: strings.Repeat("c", 10)},
	}

	assert.Equal(t, "aaaaaaaaaa"+ContextSeparator+"bbbbbbbbbb", BuildContext(chunks, 25))
	assert.Equal(t, "", BuildContext(chunks, 10))
	assert.Equal(t, NoDocumentsContext, BuildContext(nil, 8000))
}

func TestSources(t *testing.T) {
	got := Sources([]Chunk{
		{Source: "dv_act.txt", Index: 3},
		{Source: "posh.md", Index: 1},
		{Source: "dv_act.txt", Index: 3},
		{Source: "ipc.pdf", Page: 12, Index: 1},
		{Source: "ipc.pdf", Page: 12, Index: 2},
	})
	assert.Equal(t, []string{"dv_act.txt (chunk 3)", "posh.md (chunk 1)", "ipc.pdf (page 12)"}, got)
	assert.NotNil(t, Sources(nil))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("CTX", "What is 498A?")
	assert.Contains(t, p, "**Context from Legal Documents:**\nCTX")
	assert.Contains(t, p, "**User Question:** What is 498A?")
	assert.NotContains(t, p, "{context}")
}

// buildPDF writes a minimal PDF with one Helvetica text line per page
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("second"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("  \n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.docx"), []byte("ignored"), 0o644))

	docs, err := LoadDocuments(dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].Source)
	assert.Zero(t, docs[0].Page)
	assert.Equal(t, "b.md", docs[1].Source)

	chunks, err := ChunkDocuments(docs, NewSplitter(800, 100))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[1].Index)

	docs, err = LoadDocuments(filepath.Join(dir, "missing"), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadDocumentsReadsPDFPages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "women_safety_laws.pdf"),
		buildPDF("Section 354A covers sexual harassment", "Section 509 covers insulting modesty"), 0o644))

	docs, err := LoadDocuments(dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "women_safety_laws.pdf", docs[0].Source)
	assert.Equal(t, 1, docs[0].Page)
	assert.Contains(t, docs[0].Text, "354A")
	assert.Equal(t, 2, docs[1].Page)
	assert.Contains(t, docs[1].Text, "509")

	chunks, err := ChunkDocuments(docs, NewSplitter(800, 100))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"women_safety_laws.pdf (page 1)", "women_safety_laws.pdf (page 2)"}, Sources(chunks))
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func TestQueryEmbedderCaches(t *testing.T) {
	m := new(MockEmbedder)
	m.On("Embed", mock.Anything, []string{"stalking"}).Return([][]float32{{0.1, 0.2}}, nil).Once()
	m.On("Embed", mock.Anything, []string{"dowry"}).Return(nil, errors.New("quota")).Once()

	q := NewQueryEmbedder(m, time.Minute)

	v1, err := q.EmbedQuery(context.Background(), "stalking")
	require.NoError(t, err)
	v2, err := q.EmbedQuery(context.Background(), "stalking")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	_, err = q.EmbedQuery(context.Background(), "dowry")
	assert.Error(t, err)

	m.AssertExpectations(t)
}
