package model

import "time"

// ImportSummary describes a dataset that replaced the previous one.
type ImportSummary struct {
	Origin     string    `json:"origin"`
	Format     string    `json:"format"`
	Projects   int       `json:"projects"`
	Plotted    int       `json:"plotted"`
	Provinces  int       `json:"provinces"`
	ImportedAt time.Time `json:"importedAt"`
}

func Summarize(origin, format string, projects []Project) ImportSummary {
	summary := ImportSummary{
		Origin:     origin,
		Format:     format,
		Projects:   len(projects),
		ImportedAt: time.Now(),
	}
	provinces := map[string]struct{}{}
	for _, p := range projects {
		if p.Plottable() {
			summary.Plotted++
		}
		provinces[p.Province] = struct{}{}
	}
	summary.Provinces = len(provinces)
	return summary
}
