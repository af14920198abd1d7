package resume

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fyerfyer/resume-parser/internal/ner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecognizer 返回固定实体的识别器
type fakeRecognizer struct {
	entities []ner.Entity
	err      error
	calls    int
	mu       sync.Mutex
}

func (f *fakeRecognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.entities, f.err
}

func (f *fakeRecognizer) Name() string {
	return "fake"
}

const sampleResume = "John Smith\njohn.smith@email.com\n(555) 123-4567\nExperience\nAnalyst Jan 2019 to Mar 2021\nDid analysis.\nSkills\nExcel, GAAP"

func TestParseSampleResume(t *testing.T) {
	p := NewParser()

	result, err := p.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, "John Smith", result.Contact.Name)
	assert.Equal(t, []string{"john.smith@email.com"}, result.Contact.Emails)
	assert.Equal(t, []string{"(555) 123-4567"}, result.Contact.Phones)

	require.Len(t, result.Experience, 1)
	assert.Equal(t, "Analyst", result.Experience[0].Position)
	assert.Equal(t, "Jan 2019 to Mar 2021", result.Experience[0].Dates)

	assert.Contains(t, result.Skills["tools"], "Excel")
	assert.Contains(t, result.Skills["accounting"], "GAAP")

	assert.Equal(t, []string{"preamble", "experience", "skills"}, result.Sections)
	assert.Equal(t, sampleResume, result.RawText)
	assert.NotNil(t, result.Education)
	assert.Empty(t, result.Education)
}

func TestParseWithRecognizer(t *testing.T) {
	rec := &fakeRecognizer{entities: []ner.Entity{
		{Text: "Madonna", Label: ner.LabelPerson},
		{Text: "Austin", Label: ner.LabelGPE},
		{Text: "Jane Q. Public", Label: ner.LabelPerson},
	}}
	p := NewParser(WithRecognizer(rec))

	result, err := p.Parse(context.Background(), "JANE Q. PUBLIC\nAustin, TX\njane@public.org")
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "Jane Q. Public", result.Contact.Name)
	assert.Equal(t, "Austin, TX", result.Contact.Location)
}

func TestParseRecognizerFailure(t *testing.T) {
	rec := &fakeRecognizer{err: ner.NewRecognizerError(ner.ErrCodeInvalidInput, "bad encoding")}
	p := NewParser(WithRecognizer(rec))

	result, err := p.Parse(context.Background(), sampleResume)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
	assert.Contains(t, err.Error(), "fake")
}

func TestParseNoHeaders(t *testing.T) {
	p := NewParser()
	text := "Jane Doe\nAccountant 2015 to 2019\nState University, 2010 - 2014"

	result, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{PreambleSection}, result.Sections)
	assert.Equal(t, "Jane Doe", result.Contact.Name)
	assert.Len(t, result.Experience, 1)
	assert.Equal(t, []EducationEntry{{Institution: "State University", Year: "2014"}}, result.Education)
	assert.Len(t, result.Skills, 4)
}

func TestParseEmpty(t *testing.T) {
	rec := &fakeRecognizer{}
	p := NewParser(WithRecognizer(rec))

	result, err := p.Parse(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, rec.calls)
	assert.Equal(t, NotFound, result.Contact.Name)
	assert.Empty(t, result.Contact.Emails)
	assert.Empty(t, result.Contact.Phones)
	assert.Equal(t, "", result.Contact.Location)
	assert.Empty(t, result.Experience)
	assert.Empty(t, result.Education)
	assert.Empty(t, result.Sections)
	assert.Equal(t, "", result.RawText)

	// 空结果序列化为空数组而不是null
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"experience":[]`)
	assert.Contains(t, string(data), `"emails":[]`)
	assert.NotContains(t, string(data), `"location"`)
}

func TestParseRawTextTruncation(t *testing.T) {
	p := NewParser()

	long := strings.Repeat("é", 1500)
	result, err := p.Parse(context.Background(), long)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RawText, TruncationMarker))
	assert.Equal(t, RawTextLimit, len([]rune(strings.TrimSuffix(result.RawText, TruncationMarker))))

	exact := strings.Repeat("a", RawTextLimit)
	result, err = p.Parse(context.Background(), exact)
	require.NoError(t, err)
	assert.Equal(t, exact, result.RawText)
}

func TestParseDeduplicatesContacts(t *testing.T) {
	p := NewParser()
	text := "a@b.co a@b.co A@b.co\n555-123-4567 and again 555-123-4567"

	result, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"a@b.co", "A@b.co"}, result.Contact.Emails)
	assert.Equal(t, []string{"555-123-4567"}, result.Contact.Phones)
}

func TestParseIsDeterministic(t *testing.T) {
	p := NewParser()

	first, err := p.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := p.Parse(context.Background(), sampleResume)
			assert.NoError(t, err)
			assert.Equal(t, first, again)
		}()
	}
	wg.Wait()
}

func TestExtractContactNameFallbackWindow(t *testing.T) {
	lines := make([]string, 0, 12)
	for i := 0; i < 10; i++ {
		lines = append(lines, "line")
	}
	lines = append(lines, "John Smith")

	contact, err := NewParser().ExtractContact(context.Background(), strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, NotFound, contact.Name)
}
