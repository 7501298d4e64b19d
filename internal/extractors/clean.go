package extractors

import (
	"strconv"
	"strings"
)

// boilerplateMarker begins the footer block that the city's document
// templates stamp on generated pages.
const boilerplateMarker = "Template last revised"

// cleanPage runs the page cleaning passes in order: gutter line-number
// merging, then boilerplate removal. The order matters; a footer block
// absorbed into a merged paragraph is no longer a removable block.
func cleanPage(text string) string {
	text = mergeNumberedLines(text)
	return stripBoilerplate(text)
}

// mergeNumberedLines collapses runs of gutter line numbers into single
// paragraphs. Ordinance and resolution PDFs number every line down the
// left margin, so the extracted text reads
//
//	1 AN ORDINANCE relating to the City Light Department;
//	2 amending Seattle Municipal Code Section 21.49.081;
//	3 establishing rates for electric services.
//
// A run starts at a line reading as number 1 whose two successors
// continue with 2 and 3. Each numbered line contributes its text after
// the number, and the merged paragraph is flushed at the first line
// that breaks the count; that line itself passes through unmerged.
func mergeNumberedLines(text string) string {
	lines := splitLines(text)
	cleaned := make([]string, 0, len(lines))

	inRun := false
	next := 0
	merged := ""

	for i, line := range lines {
		switch {
		case !inRun:
			if startsRun(lines, i) {
				inRun = true
				next = 2
				merged = afterNumber(line, 1)
			} else {
				cleaned = append(cleaned, line)
			}
		case matchesNumber(line, next):
			if line != strconv.Itoa(next) {
				merged += " " + afterNumber(line, next)
			}
			next++
		default:
			cleaned = append(cleaned, merged, line)
			inRun = false
		}
	}
	if inRun {
		cleaned = append(cleaned, merged)
	}

	return strings.Join(cleaned, "\n")
}

// startsRun reports whether the line at index i opens a numbered run:
// it reads as line 1 and the two lines after it continue with 2 and 3.
func startsRun(lines []string, i int) bool {
	return matchesNumber(lines[i], 1) &&
		i+2 < len(lines) &&
		matchesNumber(lines[i+1], 2) &&
		matchesNumber(lines[i+2], 3)
}

// matchesNumber reports whether the line is the bare number n or
// starts with it followed by a space.
func matchesNumber(line string, n int) bool {
	s := strconv.Itoa(n)
	return line == s || strings.HasPrefix(line, s+" ")
}

// afterNumber returns the line's text after the leading number and
// space, or "" for a bare number line.
func afterNumber(line string, n int) string {
	if s := strconv.Itoa(n); line != s {
		return line[len(s)+1:]
	}
	return ""
}

// stripBoilerplate deletes template footer blocks: a line starting
// with the marker plus the three lines after it. Matches are removed
// in reverse index order so earlier indexes stay valid; a block cut
// short by the end of the page is left alone.
func stripBoilerplate(text string) string {
	lines := splitLines(text)

	var marks []int
	for i, line := range lines {
		if strings.HasPrefix(line, boilerplateMarker) {
			marks = append(marks, i)
		}
	}
	for j := len(marks) - 1; j >= 0; j-- {
		if i := marks[j]; i+3 < len(lines) {
			lines = append(lines[:i], lines[i+4:]...)
		}
	}

	return strings.Join(lines, "\n")
}

// splitLines splits text on newlines without producing a trailing
// empty line for a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
