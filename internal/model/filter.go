package model

import (
	"net/url"
	"strconv"
	"strings"
)

const DefaultMinProjects = 1

// FilterState is the sidebar selection. It is a value type: the With*
// reducers return an updated copy and never mutate the receiver.
type FilterState struct {
	Province      string `json:"province"`
	District      string `json:"district"`
	Investor      string `json:"investor"`
	MinProjects   int    `json:"minProjects"`
	Query         string `json:"query"`
	InvestorQuery string `json:"investorQuery"`
	ShowLabels    bool   `json:"showLabels"`
}

func DefaultFilter() FilterState {
	return FilterState{
		Province:    All,
		District:    All,
		Investor:    All,
		MinProjects: DefaultMinProjects,
	}
}

// WithProvince selects a province and clears the district, which belongs to
// the previous province.
func (f FilterState) WithProvince(province string) FilterState {
	f.Province = selection(province)
	f.District = All
	return f
}

func (f FilterState) WithDistrict(district string) FilterState {
	f.District = selection(district)
	return f
}

func (f FilterState) WithInvestor(investor string) FilterState {
	f.Investor = selection(investor)
	return f
}

func (f FilterState) WithMinProjects(n int) FilterState {
	if n < 0 {
		n = 0
	}
	f.MinProjects = n
	return f
}

func (f FilterState) WithQuery(q string) FilterState {
	f.Query = q
	return f
}

func (f FilterState) WithInvestorQuery(q string) FilterState {
	f.InvestorQuery = q
	return f
}

func (f FilterState) WithLabels(show bool) FilterState {
	f.ShowLabels = show
	return f
}

// FilterFromQuery decodes the sidebar selection from a request query.
// Unknown or malformed values keep their defaults.
func FilterFromQuery(values url.Values) FilterState {
	f := DefaultFilter()
	if values.Has("province") {
		f = f.WithProvince(values.Get("province"))
	}
	if values.Has("district") {
		f = f.WithDistrict(values.Get("district"))
	}
	if values.Has("investor") {
		f = f.WithInvestor(values.Get("investor"))
	}
	if raw := strings.TrimSpace(values.Get("minProjects")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f = f.WithMinProjects(n)
		}
	}
	f = f.WithQuery(values.Get("q"))
	f = f.WithInvestorQuery(values.Get("investorQ"))
	if raw := values.Get("labels"); raw != "" {
		if show, err := strconv.ParseBool(raw); err == nil {
			f = f.WithLabels(show)
		}
	}
	return f
}

// Values encodes the state back into request form. Defaults are omitted.
func (f FilterState) Values() url.Values {
	values := url.Values{}
	if f.Province != All {
		values.Set("province", f.Province)
	}
	if f.District != All {
		values.Set("district", f.District)
	}
	if f.Investor != All {
		values.Set("investor", f.Investor)
	}
	if f.MinProjects != DefaultMinProjects {
		values.Set("minProjects", strconv.Itoa(f.MinProjects))
	}
	if f.Query != "" {
		values.Set("q", f.Query)
	}
	if f.InvestorQuery != "" {
		values.Set("investorQ", f.InvestorQuery)
	}
	if f.ShowLabels {
		values.Set("labels", "true")
	}
	return values
}

// selection maps a missing value to All. A place or investor literally named
// "All" is indistinguishable from no selection.
func selection(value string) string {
	if value == "" {
		return All
	}
	return value
}
