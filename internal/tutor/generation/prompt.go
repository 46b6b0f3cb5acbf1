package generation

import (
	"fmt"
	"strings"

	"github.com/architect/adaptive-tutor/internal/tutor/topics"
)

// standardsBlocks describe the curriculum alignment expected per subject.
var standardsBlocks = map[topics.Subject]string{
	topics.SubjectEnglish: "Align with Common Core English Language Arts standards for the target grade; favor grade-appropriate vocabulary and passage length.",
	topics.SubjectMath:    "Align with Common Core Mathematics standards for the target grade; numeric values must be solvable without a calculator.",
}

// moodBlocks map a presentation tag to prompt guidance.
var moodBlocks = map[string]string{
	"creative":    "Frame the question with imaginative, story-driven scenarios.",
	"relaxed":     "Keep the tone light and encouraging with low-pressure wording.",
	"curious":     "Frame the question as an intriguing puzzle that rewards exploration.",
	"adventurous": "Set the question inside an expedition or quest scenario.",
	"analytical":  "Use precise, data-oriented framing with minimal decoration.",
	"practical":   "Ground the question in everyday real-world situations.",
	"competitive": "Frame the question as a timed challenge or contest.",
	"cool":        "Use contemporary, casual framing that speaks to teenagers.",
}

// QuestionParams carries everything the prompt builder needs.
type QuestionParams struct {
	Topic      topics.Topic
	Subtopic   string
	Context    string
	Mood       string
	Difficulty int
	Grade      int
}

// BuildQuestionPrompt renders the generation prompt for one candidate.
// The backend is instructed to answer with strict JSON so the response can
// be machine-parsed.
func BuildQuestionPrompt(info topics.Info, p QuestionParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert tutor writing one multiple-choice question for a grade %d student.\n\n", p.Grade)
	fmt.Fprintf(&b, "Topic: %s\n", p.Topic)
	fmt.Fprintf(&b, "Subtopic: %s\n", p.Subtopic)
	fmt.Fprintf(&b, "Narrative context: %s\n", p.Context)
	fmt.Fprintf(&b, "Difficulty: %d of 8 (%s)\n", p.Difficulty, topics.DifficultyDescription(p.Difficulty))

	if block, ok := standardsBlocks[info.Subject]; ok {
		fmt.Fprintf(&b, "\nStandards alignment: %s\n", block)
	}
	if block, ok := moodBlocks[p.Mood]; ok {
		fmt.Fprintf(&b, "Presentation style: %s\n", block)
	}

	b.WriteString(`
Respond with ONLY a JSON object, no prose before or after, in exactly this shape:
{
  "question": "the question text",
  "context": "optional passage or setup text, empty string if none",
  "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
  "correct": "A",
  "explanation": "why the correct option is right"
}
All four options must be present and non-empty, and "correct" must be one of A, B, C, D.`)

	return b.String()
}

// hintLevelGuidance escalates specificity without revealing the answer.
var hintLevelGuidance = [4]string{
	"Give a gentle nudge about what concept to think about. Do not mention any specific values from the problem.",
	"Point out which part of the problem to focus on and name the relevant concept.",
	"Walk through the first step of the solution approach without completing it.",
	"Explain the full solution approach step by step, stopping just short of stating the final answer.",
}

// BuildHintPrompt renders a Socratic hint prompt. The backend must never
// directly reveal the correct option.
func BuildHintPrompt(topic topics.Topic, question, wrongAnswer string, difficulty, hintLevel int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a Socratic tutor. A student is working on this %s question (difficulty %d of 8):\n\n%s\n\n", topic, difficulty, question)
	if wrongAnswer != "" {
		fmt.Fprintf(&b, "The student answered %q, which is incorrect.\n\n", wrongAnswer)
	}
	fmt.Fprintf(&b, "Hint level %d of 4: %s\n\n", hintLevel, hintLevelGuidance[hintLevel-1])
	b.WriteString("Never state the correct option or its letter. Respond with the hint text only, two sentences at most.")

	return b.String()
}

// FallbackHint returns a generic hint when the backend fails. Escalates
// mildly with level so repeated requests still feel responsive.
func FallbackHint(hintLevel int) string {
	switch {
	case hintLevel <= 1:
		return "Take another look at the question and think about which concept it is really testing."
	case hintLevel == 2:
		return "Re-read each option carefully and rule out the ones that clearly don't fit."
	case hintLevel == 3:
		return "Break the problem into smaller steps and work through the first step before choosing."
	default:
		return "Compare the two options you find most plausible and check each one against the question."
	}
}
