package navigation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Resolution is the outcome of a navigation request. When Found is false,
// Suggestions lists every page the user could have meant.
type Resolution struct {
	Found       bool
	Target      Target
	Score       float64
	Suggestions []string
	Message     string
}

// Resolver is a pure function of the table and the query text.
type Resolver struct {
	table     *Table
	minScore  float64
	phrases   []phrase
	nameIndex map[string]int
}

type phrase struct {
	text    string
	target  int
	weight  float64
	pattern *regexp.Regexp
	tokens  []string
}

var (
	navFiller = regexp.MustCompile(`\b(please|pls|can you|could you|would you|i want to|i'd like to|i would like to|let me|take me to|bring me to|go to|goto|navigate to|navigate|open up|open|launch|switch to|redirect me to|redirect to|jump to|show me|show|see|view|the|a|an|page|screen|tab|me|to|for|now)\b`)
	nonWord   = regexp.MustCompile(`[^a-z0-9/ ]+`)
	spaces    = regexp.MustCompile(`\s+`)
)

func NewResolver(table *Table, minScore float64) *Resolver {
	if minScore <= 0 {
		minScore = 0.5
	}
	r := &Resolver{table: table, minScore: minScore, nameIndex: map[string]int{}}
	for i, t := range table.targets {
		r.nameIndex[strings.ToLower(t.Name)] = i
		r.addPhrase(t.Name, i, 1.0)
		r.addPhrase(strings.ReplaceAll(t.ID, "-", " "), i, 0.95)
		for _, alias := range t.Aliases {
			r.addPhrase(alias, i, 0.95)
		}
	}
	return r
}

func (r *Resolver) addPhrase(text string, target int, weight float64) {
	norm := normalize(text)
	if norm == "" {
		return
	}
	for _, p := range r.phrases {
		if p.text == norm && p.target == target {
			return
		}
	}
	r.phrases = append(r.phrases, phrase{
		text:    norm,
		target:  target,
		weight:  weight,
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(norm) + `\b`),
		tokens:  stems(norm),
	})
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func stems(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			f = strings.TrimSuffix(f, "s")
		}
		out = append(out, f)
	}
	return out
}

// extractTarget strips navigation verbs and filler words, leaving the phrase
// that names the page.
func extractTarget(query string) string {
	q := normalize(query)
	q = navFiller.ReplaceAllString(q, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(q, " "))
}

// MentionedTargets returns the table phrases that appear verbatim (word
// bounded, case-insensitive) in text, longest first.
func (r *Resolver) MentionedTargets(text string) []string {
	norm := normalize(text)
	var out []string
	seen := map[string]bool{}
	for _, p := range r.phrases {
		if !seen[p.text] && p.pattern.MatchString(norm) {
			seen[p.text] = true
			out = append(out, p.text)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func (r *Resolver) score(p phrase, norm, target string) float64 {
	if p.pattern.MatchString(norm) {
		return p.weight
	}
	if target != "" && strings.Contains(p.text, target) {
		return p.weight * float64(len(target)) / float64(len(p.text))
	}

	queryStems := map[string]bool{}
	for _, s := range stems(norm) {
		queryStems[s] = true
	}
	hits := 0
	for _, tok := range p.tokens {
		if queryStems[tok] {
			hits++
		}
	}
	return p.weight * 0.8 * float64(hits) / float64(len(p.tokens))
}

// Resolve picks the single best target. Ties go to the longer phrase, then
// table order, so the same query always yields the same route.
func (r *Resolver) Resolve(query string) Resolution {
	norm := normalize(query)
	target := extractTarget(query)

	best, bestScore, bestLen := -1, 0.0, 0
	for _, p := range r.phrases {
		s := r.score(p, norm, target)
		if s <= 0 {
			continue
		}
		better := s > bestScore+1e-9 ||
			(s > bestScore-1e-9 && (len(p.text) > bestLen || (len(p.text) == bestLen && p.target < best)))
		if best == -1 || better {
			best, bestScore, bestLen = p.target, s, len(p.text)
		}
	}

	if best == -1 || bestScore < r.minScore {
		names := r.table.Names()
		return Resolution{
			Found:       false,
			Score:       bestScore,
			Suggestions: names,
			Message:     fmt.Sprintf("I couldn't find a page matching that. Available pages: %s.", strings.Join(names, ", ")),
		}
	}

	t := r.table.targets[best]
	return Resolution{
		Found:   true,
		Target:  t,
		Score:   bestScore,
		Message: fmt.Sprintf("Opening %s...", t.Name),
	}
}

// Marker is the in-band navigation directive for boundary layers that only
// carry text.
func Marker(url string) string {
	return fmt.Sprintf("<!-- NAVIGATE_TO:%s -->", url)
}

var markerPattern = regexp.MustCompile(`<!--\s*NAVIGATE_TO:\s*(\S+?)\s*-->`)

// StripMarker removes every navigation marker from text and returns the first URL found.
func StripMarker(text string) (string, string) {
	var url string
	if m := markerPattern.FindStringSubmatch(text); m != nil {
		url = m[1]
	}
	return strings.TrimSpace(markerPattern.ReplaceAllString(text, "")), url
}
