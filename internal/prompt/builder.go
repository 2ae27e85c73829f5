// Package prompt composes the single-turn tutor prompt sent to the
// completion provider.
package prompt

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"studyultra/internal/domain"
	"studyultra/internal/language"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// Template holds the fixed lines of one language's prompt.
type Template struct {
	Lang     language.Tag `yaml:"lang"`
	Greeting string       `yaml:"greeting"`
	Student  string       `yaml:"student"`
	Question string       `yaml:"question"`
	Answer   string       `yaml:"answer"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// Builder renders prompts from the embedded templates. The template map is
// read-only after construction, so a Builder is safe for concurrent use.
type Builder struct {
	templates map[language.Tag]Template
}

// NewBuilder loads the embedded tutor templates.
func NewBuilder() (*Builder, error) {
	data, err := templateFiles.ReadFile("templates/tutor.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read tutor templates: %w", err)
	}
	return NewBuilderFromYAML(data)
}

// NewBuilderFromYAML parses templates from raw YAML. Every supported
// language must have a template with all four lines.
func NewBuilderFromYAML(data []byte) (*Builder, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal templates: %w", err)
	}

	b := &Builder{templates: make(map[language.Tag]Template, len(file.Templates))}
	for _, tpl := range file.Templates {
		if !tpl.Lang.Valid() {
			return nil, fmt.Errorf("template for unsupported language %q", tpl.Lang)
		}
		if tpl.Greeting == "" || tpl.Student == "" || tpl.Question == "" || tpl.Answer == "" {
			return nil, fmt.Errorf("template %q is incomplete", tpl.Lang)
		}
		if !strings.Contains(tpl.Student, "%s") {
			return nil, fmt.Errorf("template %q: student line needs a %%s placeholder", tpl.Lang)
		}
		b.templates[tpl.Lang] = tpl
	}

	for _, tag := range []language.Tag{language.Portuguese, language.English, language.Spanish} {
		if _, ok := b.templates[tag]; !ok {
			return nil, fmt.Errorf("missing template for %q", tag)
		}
	}
	return b, nil
}

// Build renders the prompt: greeting, student line, question line and the
// answer cue, one per line. The question is inserted verbatim.
func (b *Builder) Build(question, studentName string, lang language.Tag) (string, error) {
	tpl, ok := b.templates[lang]
	if !ok {
		return "", fmt.Errorf("%w: no prompt template for language %q", domain.ErrValidation, lang)
	}

	var sb strings.Builder
	sb.WriteString(tpl.Greeting)
	sb.WriteByte('\n')
	sb.WriteString(strings.Replace(tpl.Student, "%s", studentName, 1))
	sb.WriteByte('\n')
	sb.WriteString(tpl.Question)
	sb.WriteByte(' ')
	sb.WriteString(question)
	sb.WriteByte('\n')
	sb.WriteString(tpl.Answer)
	return sb.String(), nil
}
