package analyzer

// Field identifies the logical document field a token came from. Each field
// carries a fixed scoring weight consumed by the scorer, not here.
type Field uint8

const (
	// FieldTitle is the document title, highest importance.
	FieldTitle Field = iota
	// FieldTag holds tags or categories, medium importance.
	FieldTag
	// FieldBody is the document body, baseline importance.
	FieldBody

	// NumFields is the number of distinct fields.
	NumFields = 3
)

// Weight returns the static scoring multiplier for the field.
func (f Field) Weight() float64 {
	switch f {
	case FieldTitle:
		return 3.0
	case FieldTag:
		return 2.0
	default:
		return 1.0
	}
}

// String returns the field name for logs and diagnostics.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldTag:
		return "tag"
	default:
		return "body"
	}
}

// Tokenize splits normalized text into whitespace-delimited tokens and
// invokes emit once per token with the token text, its field, and a 0-based
// position counter. No intermediate container is materialized; each token is
// a substring of the input and shares its backing memory.
//
// The input must satisfy the Normalizer output contract (lowercase, single
// ASCII space separators, no leading/trailing whitespace). The contract is
// verified only when the debugchecks build tag is set.
func Tokenize(normalized string, field Field, emit func(token string, field Field, pos uint32)) {
	assertNormalized(normalized)

	if len(normalized) == 0 {
		return
	}
	start := 0
	var pos uint32
	for i := 0; i < len(normalized); i++ {
		if normalized[i] != ' ' {
			continue
		}
		if start < i {
			emit(normalized[start:i], field, pos)
			pos++
		}
		start = i + 1
	}
	if start < len(normalized) {
		emit(normalized[start:], field, pos)
	}
}
