package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder tokens use Unicode Private Use Area characters.
// Input text is stripped of both runes before conversion, so a token in the
// buffer can only come from the stash.
const (
	tokenStart = "\uE000" // U+E000: Private Use Area start
	tokenEnd   = "\uE001" // U+E001: Private Use Area end
)

var tokenPattern = regexp.MustCompile(tokenStart + `(\d+)` + tokenEnd)

// stashEntry is a finished HTML fragment held out of the buffer.
// Block entries stand on their own line and are never wrapped in <p>.
type stashEntry struct {
	html  string
	block bool
}

// stash collects fragments for one top-level conversion, nested
// collapsible bodies included.
type stash struct {
	entries []stashEntry
}

// put stores a fragment and returns the token that stands in for it.
func (s *stash) put(html string, block bool) string {
	s.entries = append(s.entries, stashEntry{html: html, block: block})
	return tokenStart + strconv.Itoa(len(s.entries)-1) + tokenEnd
}

// isBlockLine reports whether a trimmed line is exactly one block token.
func (s *stash) isBlockLine(line string) bool {
	m := tokenPattern.FindStringSubmatch(line)
	if m == nil || len(m[0]) != len(line) {
		return false
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil || idx >= len(s.entries) {
		return false
	}
	return s.entries[idx].block
}

// lineSegment is a piece of a line: either a lone block token or trimmed text.
type lineSegment struct {
	text  string
	block bool
}

// splitBlocks cuts a line around its block tokens. Inline tokens stay in the
// surrounding text.
func (s *stash) splitBlocks(line string) []lineSegment {
	if !strings.Contains(line, tokenStart) {
		return []lineSegment{{text: line}}
	}

	var segs []lineSegment
	last := 0
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(line, -1) {
		idx, err := strconv.Atoi(line[loc[2]:loc[3]])
		if err != nil || idx >= len(s.entries) || !s.entries[idx].block {
			continue
		}
		segs = append(segs,
			lineSegment{text: strings.TrimSpace(line[last:loc[0]])},
			lineSegment{text: line[loc[0]:loc[1]], block: true})
		last = loc[1]
	}
	return append(segs, lineSegment{text: strings.TrimSpace(line[last:])})
}

// expand replaces every token with its fragment. Fragments may contain
// tokens of entries stashed before them (collapsible bodies), so expansion
// recurses with a strictly decreasing bound.
func (s *stash) expand(text string) string {
	return s.expandBelow(text, len(s.entries))
}

func (s *stash) expandBelow(text string, bound int) string {
	if !strings.Contains(text, tokenStart) {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		idx, err := strconv.Atoi(tok[len(tokenStart) : len(tok)-len(tokenEnd)])
		if err != nil || idx >= bound {
			return tok
		}
		return s.expandBelow(s.entries[idx].html, idx)
	})
}

// stripReserved removes placeholder runes from untrusted input.
func stripReserved(text string) string {
	if !strings.ContainsAny(text, tokenStart+tokenEnd) {
		return text
	}
	return strings.NewReplacer(tokenStart, "", tokenEnd, "").Replace(text)
}
