package coach

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly coding coach inside a JavaScript tutorial game for beginners. The learner just submitted code that did not pass. Give one short nudge that points at the most likely mistake. Never write the full answer.`

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question %d: %s\n", in.Number, in.Question.Title)
	fmt.Fprintf(&b, "\nTask:\n%s\n", in.Question.Text)
	if in.Question.Hint != "" {
		fmt.Fprintf(&b, "\nHint already shown to the learner:\n%s\n", in.Question.Hint)
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = "(empty)"
	}
	fmt.Fprintf(&b, "\nLearner's code:\n```js\n%s\n```\n", code)

	b.WriteString(`
Instructions:
Reply with a nudge of one to three sentences. Refer to the learner's code where you can. Do not repeat the hint word for word.`)

	return b.String()
}
