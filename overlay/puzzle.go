package overlay

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"alarmclock/models"
)

type ChallengeKind string

const (
	KindMath   ChallengeKind = "math"
	KindRiddle ChallengeKind = "riddle"
)

// Challenge is the puzzle shown before an alarm can be dismissed.
type Challenge struct {
	Kind     ChallengeKind `json:"kind"`
	Question string        `json:"question"`
	Answer   string        `json:"-"`
}

type riddle struct {
	question string
	answer   string
}

var riddlesEN = []riddle{
	{question: "What has keys but can't open locks?", answer: "Piano"},
	{question: "What has to be broken before you can use it?", answer: "Egg"},
	{question: "I speak without a mouth and hear without ears. I have no body, but I come alive with wind.", answer: "Echo"},
}

var riddlesAR = []riddle{
	{question: "ما هو الشيء الذي يكتب ولا يقرأ؟", answer: "القلم"},
	{question: "له أسنان ولا يعض؟", answer: "المشط"},
	{question: "أنا ابن الماء وإذا وضعوني في الماء مت، من أنا؟", answer: "الثلج"},
}

// Operand ranges of the Pro arithmetic puzzle.
const (
	mathAMin, mathASpan = 50, 50 // a in [50,99]
	mathBMin, mathBSpan = 10, 50 // b in [10,59]
	mathCSpan           = 20     // c in [0,19]
)

// WantsMath reports whether settings call for the arithmetic puzzle: Pro
// users on any theme other than the default.
func WantsMath(s models.Settings) bool {
	return s.IsPro && s.Theme != models.ThemeDarkSpace
}

// NewChallenge draws a puzzle for the given settings.
func NewChallenge(rng *rand.Rand, s models.Settings) Challenge {
	if WantsMath(s) {
		a := rng.Intn(mathASpan) + mathAMin
		b := rng.Intn(mathBSpan) + mathBMin
		c := rng.Intn(mathCSpan)
		return MathChallenge(a, b, c)
	}
	set := riddlesEN
	if s.Language == models.LanguageArabic {
		set = riddlesAR
	}
	r := set[rng.Intn(len(set))]
	return Challenge{Kind: KindRiddle, Question: r.question, Answer: r.answer}
}

func MathChallenge(a, b, c int) Challenge {
	return Challenge{
		Kind:     KindMath,
		Question: fmt.Sprintf("(%d + %d) - %d = ?", a, b, c),
		Answer:   strconv.Itoa(a + b - c),
	}
}

// MatchAnswer compares trimmed, case-folded strings.
func MatchAnswer(input, expected string) bool {
	return normalize(input) == normalize(expected)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
