package inference

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// defaultKerasFilters is the character set Keras strips when the export omits it
const defaultKerasFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// KerasTokenizer maps text to a fixed-length id sequence using a fitted
// Keras Tokenizer vocabulary. It is immutable after construction.
type KerasTokenizer struct {
	numWords  int
	filters   map[rune]struct{}
	lower     bool
	split     string
	charLevel bool
	oovIndex  int64
	hasOOV    bool
	wordIndex map[string]int64
	maxLen    int
}

var _ service.Tokenizer = (*KerasTokenizer)(nil)

// kerasTokenizerJSON is the document produced by Tokenizer.to_json()
type kerasTokenizerJSON struct {
	ClassName string               `json:"class_name"`
	Config    kerasTokenizerConfig `json:"config"`
}

type kerasTokenizerConfig struct {
	NumWords  *int            `json:"num_words"`
	Filters   *string         `json:"filters"`
	Lower     *bool           `json:"lower"`
	Split     *string         `json:"split"`
	CharLevel bool            `json:"char_level"`
	OOVToken  *string         `json:"oov_token"`
	WordIndex json.RawMessage `json:"word_index"`
}

// LoadKerasTokenizer reads a tokenizer JSON export from path
func LoadKerasTokenizer(path string, maxLen int) (*KerasTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer: %w", err)
	}
	return ParseKerasTokenizer(data, maxLen)
}

// ParseKerasTokenizer builds a tokenizer from a Tokenizer.to_json() document
func ParseKerasTokenizer(data []byte, maxLen int) (*KerasTokenizer, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("invalid sequence length %d", maxLen)
	}

	var doc kerasTokenizerJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode tokenizer: %w", err)
	}
	if doc.ClassName != "" && doc.ClassName != "Tokenizer" {
		return nil, fmt.Errorf("unexpected tokenizer class %q", doc.ClassName)
	}

	wordIndex, err := decodeWordIndex(doc.Config.WordIndex)
	if err != nil {
		return nil, err
	}
	if len(wordIndex) == 0 {
		return nil, errors.New("tokenizer word index is empty")
	}

	cfg := doc.Config
	t := &KerasTokenizer{
		lower:     true,
		split:     " ",
		charLevel: cfg.CharLevel,
		wordIndex: wordIndex,
		maxLen:    maxLen,
	}
	if cfg.NumWords != nil {
		t.numWords = *cfg.NumWords
	}
	if cfg.Lower != nil {
		t.lower = *cfg.Lower
	}
	if cfg.Split != nil && *cfg.Split != "" {
		t.split = *cfg.Split
	}

	filters := defaultKerasFilters
	if cfg.Filters != nil {
		filters = *cfg.Filters
	}
	t.filters = make(map[rune]struct{}, len(filters))
	for _, r := range filters {
		t.filters[r] = struct{}{}
	}

	if cfg.OOVToken != nil {
		if idx, ok := wordIndex[*cfg.OOVToken]; ok {
			t.oovIndex = idx
			t.hasOOV = true
		}
	}

	return t, nil
}

// word_index is serialized as a JSON string inside the config; older
// exports embed the object directly.
func decodeWordIndex(raw json.RawMessage) (map[string]int64, error) {
	if len(raw) == 0 {
		return nil, errors.New("tokenizer word index is missing")
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("failed to decode word index: %w", err)
		}
		raw = json.RawMessage(encoded)
	}

	var index map[string]int64
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("failed to decode word index: %w", err)
	}
	return index, nil
}

// SequenceLength returns the padded sequence length
func (t *KerasTokenizer) SequenceLength() int {
	return t.maxLen
}

// Sequence converts text to ids and pads or truncates it to the sequence
// length, both at the front.
func (t *KerasTokenizer) Sequence(text string) []int64 {
	return padPre(t.textToSequence(text), t.maxLen)
}

func (t *KerasTokenizer) textToSequence(text string) []int64 {
	words := t.words(text)
	seq := make([]int64, 0, len(words))

	for _, w := range words {
		idx, ok := t.wordIndex[w]
		switch {
		case ok && (t.numWords <= 0 || idx < int64(t.numWords)):
			seq = append(seq, idx)
		case t.hasOOV:
			seq = append(seq, t.oovIndex)
		}
	}

	return seq
}

func (t *KerasTokenizer) words(text string) []string {
	if t.lower {
		text = strings.ToLower(text)
	}

	if t.charLevel {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(t.replaceFilters(text), t.split)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// replaceFilters substitutes every filtered character with the split string
func (t *KerasTokenizer) replaceFilters(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if _, ok := t.filters[r]; ok {
			b.WriteString(t.split)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// padPre left-pads with zeros, or keeps the last maxLen ids
func padPre(seq []int64, maxLen int) []int64 {
	out := make([]int64, maxLen)
	if len(seq) >= maxLen {
		copy(out, seq[len(seq)-maxLen:])
		return out
	}
	copy(out[maxLen-len(seq):], seq)
	return out
}
