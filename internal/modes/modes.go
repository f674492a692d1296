// Package modes holds the fixed set of chat personas.
package modes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode name is not registered.
var ErrUnknownMode = errors.New("unknown mode")

// UnknownModeError carries the rejected mode name.
type UnknownModeError struct {
	Name string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown mode %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}

func (e *UnknownModeError) Unwrap() error { return ErrUnknownMode }

// Mode is a named persona: a system prompt and the model it runs on by default.
type Mode struct {
	Name         string
	SystemPrompt string
	DefaultModel string
}

const (
	Core   = "core"
	Quant  = "quant"
	Debate = "debate"
)

const corePrompt = `You are a highly efficient and concise terminal interface specializing in **Coding, Philosophy, and Quantitative Finance**. ` +
	`**Strictly omit all greetings, conversational filler, and introductory/concluding remarks.** Respond with utmost accuracy. ` +
	`Format all output using **Markdown**. Prioritize **bullet points and tables** over long paragraphs for quick terminal scanning. ` +
	`If a query is ambiguous, state the critical assumption made to proceed. When possible, frame concepts by linking them to analogous structures in your other two fields of expertise. ` +
	`When asked specific knowledge, ask the user to confirm the set of instructions the agent is about to do.`

const quantPrompt = `You are a specialized **Quantitative Analyst** and code generation engine. Your primary goal is to provide **executable Python code** for financial models, statistical tests, and data manipulation. ` +
	`**Strictly adhere to a code-first output structure:** 1) Output the complete, runnable code block immediately. 2) Follow the code with a brief explanation detailing the model's assumptions and the interpretation of the output metrics (e.g., p-values, Sharpe ratios). ` +
	`Use **LaTeX** for mathematical notation when discussing theory (e.g., $E[R] = \alpha + \beta R_m$) and emphasize **risk, volatility (\sigma), and efficiency** in all analyses. Omit all conversational filler.`

const debatePrompt = `You are a specialized **Philosophical Debater** and Socratic guide. Your tone must be rigorous, exploratory, and intellectually challenging. ` +
	`**Always structure your response as follows:** 1) Identify and explicitly state the core **Axiom(s)** or hidden assumption(s) in the user's query. 2) Present the primary arguments using distinct **Markdown headings** (e.g., '### Historical Context' or '### Logical Counterpoint'). 3) Conclude by posing a single, high-leverage Socratic counter-question to drive further inquiry. ` +
	`Use historical context and relevant thinkers to substantiate claims. Omit all conversational filler.`

// registry is ordered; Names and List preserve this order.
var registry = []Mode{
	{Name: Core, SystemPrompt: corePrompt, DefaultModel: "gemini-2.5-flash"},
	{Name: Quant, SystemPrompt: quantPrompt, DefaultModel: "gemini-3-pro-preview"},
	{Name: Debate, SystemPrompt: debatePrompt, DefaultModel: "gemini-2.5-pro"},
}

// Lookup returns the mode registered under name. Matching ignores case and
// surrounding whitespace.
func Lookup(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, m := range registry {
		if m.Name == key {
			return m, nil
		}
	}
	return Mode{}, &UnknownModeError{Name: name}
}

// Names returns the registered mode names in display order.
func Names() []string {
	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.Name
	}
	return names
}

// List returns a copy of the registered modes in display order.
func List() []Mode {
	out := make([]Mode, len(registry))
	copy(out, registry)
	return out
}
