// Package script parses dialogue scripts and narration documents into
// ordered segments for synthesis.
package script

import (
	"regexp"
	"strings"
)

// Line is one speaker-tagged line of dialogue.
type Line struct {
	Speaker string
	Text    string
	Number  int
}

// Dialogue is a parsed dialogue script.
type Dialogue struct {
	Lines    []Line
	Speakers map[string]struct{}
}

// LinesBySpeaker returns all lines for one speaker, in script order.
func (d *Dialogue) LinesBySpeaker(speaker string) []Line {
	var out []Line
	for _, l := range d.Lines {
		if l.Speaker == speaker {
			out = append(out, l)
		}
	}
	return out
}

// Section is one narration segment delimited by a markdown heading.
type Section struct {
	Title string
	Text  string
}

// The three recognized speaker-tag syntaxes, tried in order per line:
// [Speaker]: text, 【Speaker】: text, Speaker: text. Both half-width and
// full-width colons are accepted.
var dialoguePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\[([^\]]+)\]\s*[:：]\s*(.+)$`),
	regexp.MustCompile(`^【([^】]+)】\s*[:：]\s*(.+)$`),
	regexp.MustCompile(`^([^:：\[\]【】]+)\s*[:：]\s*(.+)$`),
}

// ParseDialogue parses a dialogue script. Lines not matching any speaker
// pattern, blank lines, and #-comments are skipped. Every recognized line
// yields exactly one ordered segment.
func ParseDialogue(content string) *Dialogue {
	d := &Dialogue{Speakers: make(map[string]struct{})}

	for number, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, pattern := range dialoguePatterns {
			match := pattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			speaker := strings.TrimSpace(match[1])
			text := strings.TrimSpace(match[2])
			if speaker != "" && text != "" {
				d.Lines = append(d.Lines, Line{Speaker: speaker, Text: text, Number: number + 1})
				d.Speakers[speaker] = struct{}{}
			}
			break
		}
	}

	return d
}

// ParseNarration splits a markdown document into sections at "##" heading
// boundaries. Text before the first heading belongs to "Introduction".
// Top-level "#" headings are dropped.
func ParseNarration(content string) []Section {
	var sections []Section

	currentTitle := "Introduction"
	var currentText []string

	flush := func() {
		if len(currentText) > 0 {
			sections = append(sections, Section{
				Title: currentTitle,
				Text:  strings.TrimSpace(strings.Join(currentText, "\n")),
			})
			currentText = nil
		}
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "##"):
			flush()
			currentTitle = strings.TrimSpace(strings.TrimLeft(line, "#"))
		case strings.HasPrefix(line, "#"):
			// Document title, not a section boundary.
		case line != "":
			currentText = append(currentText, line)
		}
	}
	flush()

	return sections
}
