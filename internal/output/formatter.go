package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jenian/envpeek/internal/probe"
)

// Options controls how a lookup is rendered
type Options struct {
	Label       string
	Placeholder string // Printed when the variable is absent
	JSON        bool
	Redact      bool
}

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Key    string  `json:"key"`
	Value  *string `json:"value"` // null when absent
	Set    bool    `json:"set"`
	Source string  `json:"source,omitempty"`
}

// Format writes the lookup to w according to opts
func Format(w io.Writer, lookup probe.Lookup, opts Options) error {
	if opts.JSON {
		return formatJSON(w, lookup, opts)
	}
	return formatHumanReadable(w, lookup, opts)
}

// line returns the single report line, without a trailing newline
func line(lookup probe.Lookup, opts Options) string {
	return fmt.Sprintf("%s: %s", opts.Label, displayValue(lookup, opts))
}

func formatHumanReadable(w io.Writer, lookup probe.Lookup, opts Options) error {
	_, err := fmt.Fprintln(w, line(lookup, opts))
	return err
}

func formatJSON(w io.Writer, lookup probe.Lookup, opts Options) error {
	out := JSONOutput{
		Key:    lookup.Key,
		Set:    lookup.Set,
		Source: lookup.Source,
	}
	if lookup.Set {
		value := lookup.Value
		if opts.Redact {
			value = redactValue(value)
		}
		out.Value = &value
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func displayValue(lookup probe.Lookup, opts Options) string {
	if !lookup.Set {
		return opts.Placeholder
	}
	if opts.Redact {
		return redactValue(lookup.Value)
	}
	return lookup.Value
}

// keyPrefixes are issuer prefixes that identify an API key without revealing it.
// Longer prefixes come first so sk-proj- wins over sk-.
var keyPrefixes = []string{
	"sk-proj-",
	"sk-ant-",
	"sk-",
	"AIza",
	"ghp_",
	"github_pat_",
	"xoxb-",
	"xoxp-",
}

// redactValue masks an API key, keeping a known issuer prefix and a short tail
// so keys can be told apart
func redactValue(value string) string {
	if value == "" {
		return `""`
	}

	prefix := ""
	for _, p := range keyPrefixes {
		if strings.HasPrefix(value, p) {
			prefix = p
			break
		}
	}
	rest := value[len(prefix):]

	switch {
	case len(rest) <= 4:
		return prefix + "***"
	case len(rest) <= 12:
		return prefix + rest[:1] + "..." + rest[len(rest)-1:]
	default:
		return prefix + "..." + rest[len(rest)-4:]
	}
}
