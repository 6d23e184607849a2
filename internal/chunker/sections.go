package chunker

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"rulescope/internal/profile"
)

// sectionSpan is a half-open [start, end) range of 0-based line indexes
// covering one section of the file.
type sectionSpan struct {
	name  string
	start int
	end   int
}

// sectionBoundaries locates section starts using the profile's section
// markers. Each section runs until the next marker or end of file. Markdown
// profiles use heading structure instead of line patterns.
func sectionBoundaries(lines []string, prof *profile.Profile) []sectionSpan {
	if prof.MarkdownSections {
		return markdownSections(lines)
	}

	markers := prof.SectionRegex()
	if len(markers) == 0 {
		return nil
	}

	var starts []int
	for i, line := range lines {
		for _, re := range markers {
			if re.MatchString(line) {
				starts = append(starts, i)
				break
			}
		}
	}

	spans := make([]sectionSpan, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		spans = append(spans, sectionSpan{
			name:  sectionName(lines[start]),
			start: start,
			end:   end,
		})
	}
	return spans
}

// markdownSections extracts heading-delimited sections from the goldmark
// AST. Headings of any level delimit chunkable sections; nesting is
// irrelevant for chunk boundaries.
func markdownSections(lines []string) []sectionSpan {
	source := []byte(strings.Join(lines, "\n"))

	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	type heading struct {
		title string
		line  int
	}
	var headings []heading

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			line := 0
			if h.Lines().Len() > 0 {
				seg := h.Lines().At(0)
				line = bytes.Count(source[:seg.Start], []byte("\n"))
			}
			headings = append(headings, heading{
				title: string(h.Text(source)),
				line:  line,
			})
		}
		return ast.WalkContinue, nil
	})

	spans := make([]sectionSpan, 0, len(headings))
	for i, h := range headings {
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].line
		}
		spans = append(spans, sectionSpan{name: h.title, start: h.line, end: end})
	}
	return spans
}

// sectionName derives a display name from a marker line.
func sectionName(line string) string {
	name := strings.TrimSpace(line)
	name = strings.TrimSuffix(name, ".")
	if len(name) > 60 {
		name = name[:60]
	}
	return name
}

// ruleBoundaries finds spans of lines that each hold one rule, so chunk
// boundaries can avoid splitting them. A span opens at a rule-pattern match
// and closes at the matching terminator, tracking nesting, within a 30-line
// window.
func ruleBoundaries(lines []string, prof *profile.Profile) []sectionSpan {
	ruleRes := prof.RuleRegex()
	termRes := prof.TerminatorRegex()
	if len(ruleRes) == 0 {
		return nil
	}

	const maxSpan = 30

	var spans []sectionSpan
	i := 0
	for i < len(lines) {
		if !matchesAny(ruleRes, lines[i]) {
			i++
			continue
		}

		start := i
		end := i + 1
		limit := min(i+maxSpan, len(lines))
		depth := 0

	scan:
		for j := i + 1; j < limit; j++ {
			line := lines[j]
			switch {
			case matchesAny(termRes, line):
				end = j + 1
				if depth == 0 {
					break scan
				}
				depth--
			case matchesAny(ruleRes, line):
				depth++
				end = j + 1
			case strings.TrimSpace(line) == "":
				if depth == 0 {
					end = j
					break scan
				}
			default:
				end = j + 1
			}
		}

		if end-start >= 2 {
			spans = append(spans, sectionSpan{start: start, end: end})
			i = end
		} else {
			i++
		}
	}
	return spans
}

func matchesAny(res []*regexp.Regexp, line string) bool {
	for _, re := range res {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
