package changemode

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Edit is a single replace-this-with-that suggestion anchored to a file
// location.
type Edit struct {
	// File is the path as reported by the model, usually relative to the
	// working directory the CLI ran in.
	File string

	// Line is the 1-based line number where Old begins.
	Line int

	// Old is the exact content being replaced.
	Old string

	// New is the replacement content.
	New string
}

// WrapPrompt prepends the strict edit-format instructions to a prompt so the
// CLI's answer is parseable by ParseEdits.
func WrapPrompt(prompt string) string {
	return promptPreamble + prompt
}

const promptPreamble = "When proposing code changes, respond ONLY with edit blocks in this exact format:\n\n" +
	"**FILE: relative/path/to/file.ext:LINE**\n" +
	"```old\n" +
	"exact lines being replaced\n" +
	"```\n" +
	"```new\n" +
	"replacement lines\n" +
	"```\n\n" +
	"Rules:\n" +
	"- OLD must quote the current file content exactly, including indentation.\n" +
	"- LINE is the 1-based line number where OLD begins.\n" +
	"- Use one block per distinct change, smallest possible OLD sections.\n" +
	"- No prose outside the edit blocks.\n\n" +
	"Request: "

var (
	fileHeaderRe = regexp.MustCompile(`\*\*FILE:\s*([^*\n]+?):(\d+)\*\*`)
	fenceRe      = regexp.MustCompile("(?s)```(old|new)[ \t]*\n(.*?)\n?```")
)

// ParseEdits extracts edit blocks from raw CLI output. Sections missing
// either an old or a new fence are skipped. Returns nil when the output
// contains no well-formed edits.
func ParseEdits(raw string) []Edit {
	headers := fileHeaderRe.FindAllStringSubmatchIndex(raw, -1)
	if len(headers) == 0 {
		return nil
	}

	var edits []Edit
	for i, h := range headers {
		file := strings.TrimSpace(raw[h[2]:h[3]])
		line, err := strconv.Atoi(raw[h[4]:h[5]])
		if err != nil || file == "" {
			continue
		}

		sectionEnd := len(raw)
		if i+1 < len(headers) {
			sectionEnd = headers[i+1][0]
		}
		section := raw[h[1]:sectionEnd]

		oldText, newText, ok := extractFences(section)
		if !ok {
			continue
		}
		edits = append(edits, Edit{File: file, Line: line, Old: oldText, New: newText})
	}
	return edits
}

// extractFences returns the first old and new fenced blocks in the section.
func extractFences(section string) (oldText, newText string, ok bool) {
	var haveOld, haveNew bool
	for _, m := range fenceRe.FindAllStringSubmatch(section, -1) {
		switch m[1] {
		case "old":
			if !haveOld {
				oldText = m[2]
				haveOld = true
			}
		case "new":
			if !haveNew {
				newText = m[2]
				haveNew = true
			}
		}
		if haveOld && haveNew {
			break
		}
	}
	return oldText, newText, haveOld && haveNew
}

// FilesTouched returns the sorted unique set of files referenced by edits.
func FilesTouched(edits []Edit) []string {
	seen := make(map[string]struct{}, len(edits))
	var files []string
	for _, e := range edits {
		if _, ok := seen[e.File]; ok {
			continue
		}
		seen[e.File] = struct{}{}
		files = append(files, e.File)
	}
	sort.Strings(files)
	return files
}
