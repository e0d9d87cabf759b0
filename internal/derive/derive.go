// Package derive computes everything the dashboard shows from the current
// project set and filter selection. All functions are pure: they never
// modify their inputs and return the same output for the same input.
package derive

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"projectmap/internal/model"
)

type InvestorCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// View is the complete derived state for one filter selection. Filter is
// the effective selection after reconciliation.
type View struct {
	Filter    model.FilterState `json:"filter"`
	Provinces []string          `json:"provinces"`
	Districts []string          `json:"districts"`
	Investors []InvestorCount   `json:"investors"`
	Projects  []model.Project   `json:"projects"`
	Total     int               `json:"total"`
	Plotted   int               `json:"plotted"`
}

func Derive(projects []model.Project, state model.FilterState) View {
	roster := Investors(projects, state)
	state = Reconcile(state, roster)

	filtered := Filter(projects, state)
	plotted := 0
	for _, p := range filtered {
		if p.Plottable() {
			plotted++
		}
	}

	return View{
		Filter:    state,
		Provinces: Provinces(projects),
		Districts: Districts(projects, state.Province),
		Investors: roster,
		Projects:  filtered,
		Total:     len(projects),
		Plotted:   plotted,
	}
}

// Provinces returns the distinct non-empty provinces in Vietnamese
// collation order.
func Provinces(projects []model.Project) []string {
	return distinct(projects, func(p model.Project) (string, bool) {
		return p.Province, true
	})
}

// Districts returns the distinct districts of the selected province. No
// province selection yields no districts.
func Districts(projects []model.Project, province string) []string {
	if province == model.All || province == "" {
		return []string{}
	}
	return distinct(projects, func(p model.Project) (string, bool) {
		return p.District, p.Province == province
	})
}

// Investors counts projects per normalized investor inside the selected
// province and district and keeps the names reaching state.MinProjects.
// Neither the investor selection nor the investor search narrows the roster.
func Investors(projects []model.Project, state model.FilterState) []InvestorCount {
	counts := map[string]int{}
	for _, p := range projects {
		if !matchesGeography(p, state) {
			continue
		}
		counts[p.InvestorKey()]++
	}

	roster := make([]InvestorCount, 0, len(counts))
	for name, count := range counts {
		if count >= state.MinProjects {
			roster = append(roster, InvestorCount{Name: name, Count: count})
		}
	}

	c := newCollator()
	sort.Slice(roster, func(i, j int) bool {
		return collateLess(c, roster[i].Name, roster[j].Name)
	})
	return roster
}

// Reconcile resets an investor selection that the roster no longer offers.
func Reconcile(state model.FilterState, roster []InvestorCount) model.FilterState {
	if state.Investor == model.All {
		return state
	}
	for _, entry := range roster {
		if entry.Name == state.Investor {
			return state
		}
	}
	return state.WithInvestor(model.All)
}

// Filter keeps the projects matching every criterion, in input order. The
// MinProjects threshold only shapes the roster: with investor "All" every
// investor's projects pass.
func Filter(projects []model.Project, state model.FilterState) []model.Project {
	query := fold(state.Query)
	investorQuery := fold(state.InvestorQuery)

	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if !matchesGeography(p, state) {
			continue
		}
		investor := p.InvestorKey()
		if state.Investor != model.All && investor != model.NormalizeInvestor(state.Investor) {
			continue
		}
		if query != "" && !strings.Contains(fold(p.Name), query) {
			continue
		}
		if investorQuery != "" && !strings.Contains(fold(investor), investorQuery) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesGeography(p model.Project, state model.FilterState) bool {
	if state.Province != model.All && p.Province != state.Province {
		return false
	}
	if state.District != model.All && p.District != state.District {
		return false
	}
	return true
}

func distinct(projects []model.Project, pick func(model.Project) (string, bool)) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range projects {
		value, ok := pick(p)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	c := newCollator()
	sort.Slice(out, func(i, j int) bool {
		return collateLess(c, out[i], out[j])
	})
	return out
}

// collateLess orders by Vietnamese collation. Names the collator ranks
// equal, such as NFC and NFD spellings, fall back to byte order so the
// result does not depend on input or map order.
func collateLess(c *collate.Collator, a, b string) bool {
	if r := c.CompareString(a, b); r != 0 {
		return r < 0
	}
	return a < b
}

// fold prepares text for case-insensitive matching. Vietnamese input mixes
// precomposed and combining diacritics, so both sides are NFC-normalized.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// newCollator returns a fresh collator per call; collate.Collator is not
// safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.Vietnamese)
}
