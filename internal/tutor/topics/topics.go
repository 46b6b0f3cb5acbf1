package topics

// Subject groups topics for backend routing and standards alignment.
type Subject string

const (
	SubjectEnglish Subject = "english"
	SubjectMath    Subject = "math"
)

// Topic is a stable key identifying one tracked skill.
type Topic string

const (
	EnglishComprehension Topic = "english_comprehension"
	EnglishGrammar       Topic = "english_grammar"
	EnglishVocabulary    Topic = "english_vocabulary"
	EnglishSentences     Topic = "english_sentences"
	EnglishSynonyms      Topic = "english_synonyms"
	EnglishAntonyms      Topic = "english_antonyms"
	EnglishFillBlank     Topic = "english_fill_blank"
	MathNumberTheory     Topic = "math_number_theory"
	MathAlgebra          Topic = "math_algebra"
	MathGeometry         Topic = "math_geometry"
	MathStatistics       Topic = "math_statistics"
	MathPrecalculus      Topic = "math_precalculus"
	MathCalculus         Topic = "math_calculus"
)

// Info describes one topic: its subject, the subtopics a prompt can focus
// on, and the backend identity that serves it.
type Info struct {
	Subject   Subject
	Backend   string
	Subtopics []string
}

// registry statically binds each topic to exactly one backend identity.
// Math topics go to OpenAI, English topics to Anthropic.
var registry = map[Topic]Info{
	EnglishComprehension: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"main idea", "inference", "author's purpose", "supporting details", "tone and mood"},
	},
	EnglishGrammar: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"subject-verb agreement", "verb tense", "pronoun usage", "parallel structure", "punctuation", "modifiers"},
	},
	EnglishVocabulary: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"word meaning in context", "prefixes and suffixes", "word roots", "multiple meanings", "academic vocabulary"},
	},
	EnglishSentences: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"sentence combining", "fragments and run-ons", "sentence variety", "clause structure", "word order"},
	},
	EnglishSynonyms: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"exact synonyms", "near synonyms", "shades of meaning", "formal vs informal", "context-dependent synonyms"},
	},
	EnglishAntonyms: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"direct antonyms", "gradable antonyms", "prefix-formed antonyms", "context-dependent antonyms"},
	},
	EnglishFillBlank: {
		Subject: SubjectEnglish, Backend: "anthropic",
		Subtopics: []string{"single blank", "double blank", "transition words", "idiomatic usage", "logical completion"},
	},
	MathNumberTheory: {
		Subject: SubjectMath, Backend: "openai",
		Subtopics: []string{"primes and factors", "divisibility", "GCD and LCM", "modular arithmetic", "integer properties"},
	},
	MathAlgebra: {
		Subject: SubjectMath, Backend: "openai",
		Subtopics: []string{"linear equations", "inequalities", "systems of equations", "polynomials", "quadratic equations", "exponents"},
	},
	MathGeometry: {
		Subject: SubjectMath, Backend: "openai",
		Subtopics: []string{"angles", "triangles", "circles", "area and perimeter", "volume", "coordinate geometry"},
	},
	MathStatistics: {
		Subject: SubjectMath, Backend: "openai",
		Subtopics: []string{"mean median mode", "probability", "data interpretation", "standard deviation", "combinations and permutations"},
	},
	MathPrecalculus: {
		Subject: SubjectMath, Backend: "openai",
		Subtopics: []string{"functions", "trigonometry", "logarithms", "sequences and series", "complex numbers"},
	},
	MathCalculus: {
		Subject: SubjectMath, Backend: "openai",
		Subtopics: []string{"limits", "derivatives", "integrals", "rates of change", "optimization"},
	},
}

// Contexts are the narrative framings a question can be embedded in.
var Contexts = []string{
	"sports", "gaming", "music", "movies", "space", "nature",
	"technology", "food", "travel", "animals",
}

// Moods are the presentation-style tags a learner can request.
var Moods = []string{
	"creative", "relaxed", "curious", "adventurous",
	"analytical", "practical", "competitive", "cool",
}

// difficultyDescriptions maps difficulty tiers 1-8 to the qualitative
// wording embedded in prompts.
var difficultyDescriptions = [8]string{
	"very easy",
	"easy",
	"basic",
	"moderate",
	"challenging",
	"hard",
	"advanced",
	"mastery level",
}

// All returns every registered topic key.
func All() []Topic {
	out := make([]Topic, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	return out
}

// Lookup returns the topic info, or ok=false for an unknown key.
func Lookup(t Topic) (Info, bool) {
	info, ok := registry[t]
	return info, ok
}

// IsValid reports whether t is a registered topic key.
func IsValid(t Topic) bool {
	_, ok := registry[t]
	return ok
}

// IsValidMood reports whether mood is a recognized presentation tag.
// The empty mood is always valid.
func IsValidMood(mood string) bool {
	if mood == "" {
		return true
	}
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}

// DifficultyDescription returns the qualitative wording for a tier in [1,8].
// Out-of-range tiers clamp to the nearest bound.
func DifficultyDescription(tier int) string {
	if tier < 1 {
		tier = 1
	}
	if tier > 8 {
		tier = 8
	}
	return difficultyDescriptions[tier-1]
}
