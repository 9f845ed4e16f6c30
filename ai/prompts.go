package ai

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout renders the current-time stamp embedded in every prompt so the
// model can resolve relative expressions like "yesterday" or "last week".
const timeLayout = "2006-01-02 15:04:05 MST"

const expandQueryTemplate = `The current date and time is %s.

You are a digital forensics analyst. Below is a chat with an investigator,
followed by their latest question about forensic evidence collected from a
compromised host.

Chat history:
%s

Latest question:
%s

Rewrite the latest question as a single verbose paragraph describing the
suspicious activity, attacker behaviors, tools, file names, process names,
registry keys, and event types that forensic evidence answering the question
would contain. Write only the paragraph. Do not answer the question.`

const extractTimeRangeTemplate = `The current date and time is %s.

Extract the time range of interest from the question below. Respond with
ONLY a JSON object. If the question names or implies a time range, respond
with {"start": "<ISO 8601 UTC>", "end": "<ISO 8601 UTC>"}. If no time range
is mentioned, respond with {}.

Question:
%s`

const generateIndicatorsTemplate = `The current date and time is %s.

You are a digital forensics analyst building keyword filters for an evidence
search. Based on the suspicious activity described below, produce literal
strings that would appear in matching log lines and forensic records:
process names, file names, file paths, registry keys, command-line
fragments, event identifiers, and tool names.

Respond with ONLY a JSON array of %d strings. No explanations.

Activity description:
%s`

const synthesizeTemplate = `The current date and time is %s.

You are a digital forensics analyst. Context events retrieved from the
evidence database appear earlier in this conversation between <CONTEXT
EVENTS> markers. Using ONLY those events, answer the investigator's
question. Cite specific events, timestamps, and artifact names. If the
events do not support an answer, say so plainly.

Investigator's question:
%s

Search description used for retrieval:
%s`

const moreIndicatorsTemplate = `Produce %d additional strings that did not appear in any previous response. Respond with ONLY a JSON array of strings. No explanations.`

// IndicatorsPerRound is how many candidate strings each indicator-generation
// round asks the model for.
const IndicatorsPerRound = 20

// ExpandQueryPrompt builds the prompt that rewrites the latest user query
// into a verbose description of the suspected activity.
func ExpandQueryPrompt(now time.Time, history []Message, query string) string {
	var chat []string
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = RoleUser
		}
		role = strings.ToUpper(role[:1]) + role[1:]
		chat = append(chat, "## "+role+":", m.Content, "")
	}
	return fmt.Sprintf(expandQueryTemplate,
		now.UTC().Format(timeLayout),
		IndentString(strings.Join(chat, "\n"), 12),
		IndentString(query, 12))
}

// TimeRangePrompt builds the prompt that extracts a start/end time range
// from the user query.
func TimeRangePrompt(now time.Time, query string) string {
	return fmt.Sprintf(extractTimeRangeTemplate,
		now.UTC().Format(timeLayout),
		IndentString(query, 8))
}

// IndicatorsPrompt builds the prompt for one round of IOC string generation.
func IndicatorsPrompt(now time.Time, query string) string {
	return fmt.Sprintf(generateIndicatorsTemplate,
		now.UTC().Format(timeLayout),
		IndicatorsPerRound,
		IndentString(query, 8))
}

// MoreIndicatorsPrompt builds the follow-up prompt for later rounds of IOC
// string generation. Earlier rounds stay in the conversation, so the model
// sees what it already produced.
func MoreIndicatorsPrompt() string {
	return fmt.Sprintf(moreIndicatorsTemplate, IndicatorsPerRound)
}

// SynthesizePrompt builds the final answer-generation prompt. The retrieved
// context events are sent as a separate preceding message; see WrapContextEvents.
func SynthesizePrompt(now time.Time, originalQuery, expandedQuery string) string {
	return fmt.Sprintf(synthesizeTemplate,
		now.UTC().Format(timeLayout),
		IndentString(originalQuery, 8),
		IndentString(expandedQuery, 8))
}

// WrapContextEvents frames retrieved evidence for inclusion in the
// synthesis conversation.
func WrapContextEvents(events string) string {
	return "<CONTEXT EVENTS>\n" + events + "\n</END CONTEXT EVENTS>"
}
