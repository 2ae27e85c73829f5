package prompt

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyultra/internal/domain"
	"studyultra/internal/language"
)

func TestBuild_EnglishScenario(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	lang := language.NewKeywordClassifier().Detect("What is photosynthesis?")
	require.Equal(t, language.English, lang)

	got, err := b.Build("What is photosynthesis?", "Ana", lang)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(got, "You are Teacher AI"))
	assert.Equal(t, "The student's name is Ana.", lines[1])
	assert.Equal(t, "Question: What is photosynthesis?", lines[2])
	assert.Equal(t, "Answer:", lines[3])
}

func TestBuild_PerLanguage(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	tests := []struct {
		lang     language.Tag
		greeting string
		student  string
		cue      string
	}{
		{language.Portuguese, "Você é a Teacher AI", "O aluno se chama Rui.", "Resposta:"},
		{language.English, "You are Teacher AI", "The student's name is Rui.", "Answer:"},
		{language.Spanish, "Eres Teacher AI", "El alumno se llama Rui.", "Respuesta:"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			got, err := b.Build("2+2?", "Rui", tt.lang)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, tt.greeting))
			assert.Contains(t, got, tt.student)
			assert.True(t, strings.HasSuffix(got, tt.cue))
		})
	}
}

func TestBuild_QuestionIsVerbatim(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	questions := []string{
		"",
		"100% certo? %s %d",
		"linha 1\nlinha 2\r\n\tfim",
		"<script>alert('x')</script>",
		"\x00\x07 controle",
	}
	for _, q := range questions {
		got, err := b.Build(q, "Ana", language.Portuguese)
		require.NoError(t, err)
		assert.Contains(t, got, q)
	}
}

func TestBuild_NameWithPercent(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	got, err := b.Build("q", "100%s Ana", language.English)
	require.NoError(t, err)
	assert.Contains(t, got, "The student's name is 100%s Ana.")
}

func TestBuild_UnknownLanguage(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	_, err = b.Build("q", "Ana", language.Tag("fr"))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNewBuilderFromYAML_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed", yaml: "templates: [:"},
		{name: "unsupported language", yaml: `
templates:
  - {lang: fr, greeting: g, student: "n %s", question: q, answer: a}`},
		{name: "missing languages", yaml: `
templates:
  - {lang: pt, greeting: g, student: "n %s", question: q, answer: a}`},
		{name: "student without placeholder", yaml: `
templates:
  - {lang: pt, greeting: g, student: n, question: q, answer: a}
  - {lang: en, greeting: g, student: "n %s", question: q, answer: a}
  - {lang: es, greeting: g, student: "n %s", question: q, answer: a}`},
		{name: "incomplete", yaml: `
templates:
  - {lang: pt, greeting: g, student: "n %s", question: q}
  - {lang: en, greeting: g, student: "n %s", question: q, answer: a}
  - {lang: es, greeting: g, student: "n %s", question: q, answer: a}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilderFromYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBuild_ConcurrentUse(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	langs := []language.Tag{language.Portuguese, language.English, language.Spanish}
	results := make([]string, 30)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := b.Build("q", "Ana", langs[i%len(langs)])
			if err == nil {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	for i, out := range results {
		want, err := b.Build("q", "Ana", langs[i%len(langs)])
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
}
