// Package notes parses the free-text leg notes attached to a wager into
// structured legs. One line per leg; metadata lines and blanks are skipped.
// Parsing is strict: a line that should be a leg but has no recognizable
// odds value fails the whole parse with a ParseError naming the offending
// lines, rather than being silently dropped.
package notes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// metadataPrefixes mark lines that describe the wager rather than a leg.
var metadataPrefixes = []string{"Category:", "League:", "Game ID:", "Auto-settled:"}

var (
	statusTagRe = regexp.MustCompile(`\[(Won|Lost)\]\s*$`)
	parenOddsRe = regexp.MustCompile(`\(([+-]?\d+)\)`)
	bareOddsRe  = regexp.MustCompile(`([+-]?\d{3,})\s*$`)
	spreadRe    = regexp.MustCompile(`([+-]\d+(?:\.\d+)?|\d+\.\d+)\s*$`)
	matchupRe   = regexp.MustCompile(`\s+(?:vs\.?|@)\s+`)
)

// ParseError reports the 1-based line numbers of leg lines that could not
// be parsed.
type ParseError struct {
	Lines []int
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Lines))
	for i, n := range e.Lines {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("notes: unparseable leg lines: %s", strings.Join(parts, ", "))
}

// Parse turns notes text into legs. Legs are numbered 0..n-1 in file order.
// A `League:` (or, failing that, `Category:`) metadata line sets the Sport
// tag for the legs that follow it. A trailing `[Won]` or `[Lost]` marker on
// a leg line sets that leg's initial status; otherwise legs start Pending.
func Parse(text string) ([]domain.Leg, error) {
	var (
		legs   []domain.Leg
		failed []int
		sport  string
	)

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if prefix, ok := metadataPrefix(line); ok {
			value := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			switch prefix {
			case "League:":
				if value != "" {
					sport = value
				}
			case "Category:":
				// League is more specific; only fall back to the category.
				if sport == "" && value != "" {
					sport = value
				}
			}
			continue
		}

		leg, ok := parseLeg(line)
		if !ok {
			failed = append(failed, lineNo+1)
			continue
		}
		leg.Index = len(legs)
		leg.Sport = sport
		legs = append(legs, leg)
	}

	if len(failed) > 0 {
		return nil, &ParseError{Lines: failed}
	}
	return legs, nil
}

func metadataPrefix(line string) (string, bool) {
	for _, p := range metadataPrefixes {
		if strings.HasPrefix(line, p) {
			return p, true
		}
	}
	return "", false
}

// parseLeg parses a single leg line: team/selection text, an optional
// signed spread, a required American odds integer (conventionally in
// parentheses), an optional "vs"/"@" opponent, and an optional status tag.
func parseLeg(line string) (domain.Leg, bool) {
	leg := domain.Leg{Status: domain.LegStatusPending}

	if m := statusTagRe.FindStringSubmatch(line); m != nil {
		switch m[1] {
		case "Won":
			leg.Status = domain.LegStatusWon
		case "Lost":
			leg.Status = domain.LegStatusLost
		}
		line = strings.TrimSpace(statusTagRe.ReplaceAllString(line, ""))
	}

	odds, rest, ok := extractOdds(line)
	if !ok {
		return domain.Leg{}, false
	}
	leg.Odds = odds

	// Opponent side, if present.
	if loc := matchupRe.FindStringIndex(rest); loc != nil {
		leg.Matchup = strings.TrimSpace(rest[loc[1]:])
		rest = rest[:loc[0]]
	}
	rest = strings.TrimSpace(rest)

	// Trailing signed (or fractional) number on the selection is the spread.
	if m := spreadRe.FindStringSubmatch(rest); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			leg.Spread = &v
			rest = strings.TrimSpace(spreadRe.ReplaceAllString(rest, ""))
		}
	}

	leg.Team = strings.TrimSpace(rest)
	if leg.Team == "" {
		return domain.Leg{}, false
	}
	return leg, true
}

// extractOdds pulls the American odds value off a leg line and returns the
// line with the odds token removed. Parenthesized odds win; otherwise a
// bare trailing integer of at least three digits is accepted. Zero odds
// carry no price and are rejected.
func extractOdds(line string) (int, string, bool) {
	if locs := parenOddsRe.FindAllStringSubmatchIndex(line, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		v, err := strconv.Atoi(line[last[2]:last[3]])
		if err != nil || v == 0 {
			return 0, "", false
		}
		rest := strings.TrimSpace(line[:last[0]] + " " + line[last[1]:])
		return v, rest, true
	}

	if m := bareOddsRe.FindStringSubmatchIndex(line); m != nil {
		v, err := strconv.Atoi(line[m[2]:m[3]])
		if err != nil || v == 0 {
			return 0, "", false
		}
		rest := strings.TrimSpace(line[:m[0]])
		return v, rest, true
	}

	return 0, "", false
}
