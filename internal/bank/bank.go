package bank

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// ChapterSize is the fixed number of questions per chapter.
	ChapterSize = 10

	// TotalQuestions is the global question count, independent of how many
	// chapters are authored.
	TotalQuestions = 100

	// MaxChapters is the number of chapters TotalQuestions allows.
	MaxChapters = TotalQuestions / ChapterSize
)

// ChapterOf returns the 1-based chapter that holds global question q.
func ChapterOf(q int) int {
	if q < 1 {
		return 1
	}
	return (q-1)/ChapterSize + 1
}

// IndexInChapter returns the 0-based position of global question q within
// its chapter.
func IndexInChapter(q int) int {
	if q < 1 {
		return 0
	}
	return (q - 1) % ChapterSize
}

// Question is a single coding exercise.
type Question struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Text      string `yaml:"text"`
	Reasoning string `yaml:"reasoning"`
	Hint      string `yaml:"hint"`

	// Solution is shown to the learner after a failed attempt. It is never
	// used to decide correctness.
	Solution string `yaml:"solution"`

	// Test decides correctness.
	Test Rule `yaml:"test"`
}

// Accepts reports whether code passes the question's acceptance rule.
func (q *Question) Accepts(code string) bool {
	return q.Test.Accepts(code)
}

// Chapter groups ChapterSize questions under a story.
type Chapter struct {
	Number    int        `yaml:"number"`
	Title     string     `yaml:"title"`
	Character string     `yaml:"character"`
	Story     string     `yaml:"story"`
	Questions []Question `yaml:"questions"`
}

// FirstQuestion returns the global number of the chapter's first question.
func (c *Chapter) FirstQuestion() int {
	return (c.Number-1)*ChapterSize + 1
}

// Bank is the read-only catalog of chapters. It is safe for concurrent use.
type Bank struct {
	chapters []Chapter
	byNumber map[int]*Chapter
}

type document struct {
	Chapters []Chapter `yaml:"chapters"`
}

// New validates chapters, compiles their rules and returns a Bank. The
// Bank owns deep copies, so later changes to chapters do not reach it.
func New(chapters []Chapter) (*Bank, error) {
	cs := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		qs := make([]Question, len(ch.Questions))
		for j, q := range ch.Questions {
			q.Test = q.Test.clone()
			qs[j] = q
		}
		ch.Questions = qs
		cs[i] = ch
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Number < cs[j].Number })

	if err := validateChapters(cs); err != nil {
		return nil, err
	}

	b := &Bank{chapters: cs, byNumber: make(map[int]*Chapter, len(cs))}
	for i := range b.chapters {
		ch := &b.chapters[i]
		for j := range ch.Questions {
			q := &ch.Questions[j]
			if err := q.Test.compile(); err != nil {
				return nil, fmt.Errorf("question %q: %w", q.ID, err)
			}
		}
		b.byNumber[ch.Number] = ch
	}
	return b, nil
}

// Parse builds a Bank from a YAML document with a top-level "chapters" list.
func Parse(data []byte) (*Bank, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return New(doc.Chapters)
}

//go:embed chapters.yaml
var defaultChapters []byte

var (
	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the embedded question bank.
func Default() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Parse(defaultChapters)
	})
	return defaultBank, defaultErr
}

// Chapter returns chapter n, or false if it is not in the bank.
func (b *Bank) Chapter(n int) (*Chapter, bool) {
	ch, ok := b.byNumber[n]
	return ch, ok
}

// Question looks up a question by chapter number and global question
// number. It returns false when the chapter does not exist or holds no
// question at that position.
func (b *Bank) Question(chapter, global int) (*Chapter, *Question, bool) {
	ch, ok := b.byNumber[chapter]
	if !ok {
		return nil, nil, false
	}
	idx := IndexInChapter(global)
	if idx >= len(ch.Questions) {
		return ch, nil, false
	}
	return ch, &ch.Questions[idx], true
}

// Chapters returns all chapters in order.
func (b *Bank) Chapters() []Chapter {
	out := make([]Chapter, len(b.chapters))
	copy(out, b.chapters)
	return out
}

// AuthoredQuestions returns how many questions the bank actually contains.
func (b *Bank) AuthoredQuestions() int {
	n := 0
	for _, ch := range b.chapters {
		n += len(ch.Questions)
	}
	return n
}
