package tools

import (
	"fmt"
	"strings"

	"go-agentplan/pkg/models"
)

// FormattingInstructions is appended to every successful tool result so the
// downstream model renders it for the user instead of rewriting it.
const FormattingInstructions = "Instructions: returning the output of this function call verbatim to the user in markdown. Then write AGENT SUMMARY: and then include a summary of what you did."

// Tool is a data-driven descriptor: execution is pure string templating of
// ResponseTemplate with the caller-supplied arguments. No runtime code
// generation, no external calls.
type Tool struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Parameters       []string `json:"parameters"`
	ResponseTemplate string   `json:"response_template"`
}

// Execute interpolates the tool's template with args. Failures are in-band
// strings, never errors: a missing placeholder value yields a
// "Missing parameter" message and any other templating problem yields a
// generic "error processing" message.
func (t Tool) Execute(args map[string]string) string {
	var b strings.Builder
	tmpl := t.ResponseTemplate
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			break
		}
		b.WriteString(tmpl[:open])
		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			return fmt.Sprintf("error processing %s", t.Name)
		}
		name := tmpl[open+1 : open+closing]
		if name == "" || strings.ContainsAny(name, " \t\n{") {
			return fmt.Sprintf("error processing %s", t.Name)
		}
		val, ok := args[name]
		if !ok {
			return fmt.Sprintf("Missing parameter %q for %s", name, t.Name)
		}
		b.WriteString(val)
		tmpl = tmpl[open+closing+1:]
	}
	return b.String() + "\n" + FormattingInstructions
}

// Find returns the named tool from the list.
func Find(list []Tool, name string) (Tool, bool) {
	for _, t := range list {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Describe renders a tool list for inclusion in an agent prompt.
func Describe(list []Tool) string {
	var b strings.Builder
	for _, t := range list {
		b.WriteString("- ")
		b.WriteString(t.Name)
		if len(t.Parameters) > 0 {
			b.WriteString("(")
			b.WriteString(strings.Join(t.Parameters, ", "))
			b.WriteString(")")
		} else {
			b.WriteString("()")
		}
		b.WriteString(": ")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// Summaries maps each agent to a short catalog blurb for the planner prompt.
func Summaries() (string, error) {
	var b strings.Builder
	for _, name := range models.TaskAgents {
		list, err := Catalog(name)
		if err != nil {
			return "", err
		}
		b.WriteString(string(name))
		b.WriteString(":\n")
		b.WriteString(Describe(list))
	}
	return b.String(), nil
}
