package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"projectmap/internal/normalize"
)

type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type ProjectRepository struct {
	db Querier
}

func NewProjectRepository(db Querier) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const listProjects = `
SELECT name, url, province, district, category, latitude, longitude,
       area, units, towers, investor, attributes, price_history
FROM projects
ORDER BY position, id`

type projectRow struct {
	Name, URL, Province, District, Category *string
	Latitude, Longitude                     *float64
	Area, Units, Towers, Investor           *string
	Attributes, PriceHistory                []byte
}

func (r *ProjectRepository) List(ctx context.Context) ([]normalize.Item, error) {
	rows, err := r.db.Query(ctx, listProjects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := []normalize.Item{}
	for rows.Next() {
		var row projectRow
		if err := rows.Scan(
			&row.Name, &row.URL, &row.Province, &row.District, &row.Category,
			&row.Latitude, &row.Longitude,
			&row.Area, &row.Units, &row.Towers, &row.Investor,
			&row.Attributes, &row.PriceHistory,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		item, err := mapItem(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return items, nil
}

// mapItem builds a canonical item. NULL columns are left out so the
// normalizer applies its usual defaults.
func mapItem(row projectRow) (normalize.Item, error) {
	item := normalize.Item{}
	put := func(key string, value any) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		item[key] = raw
		return nil
	}

	texts := []struct {
		key   string
		value *string
	}{
		{normalize.KeyName, row.Name},
		{normalize.KeyURL, row.URL},
		{normalize.KeyProvince, row.Province},
		{normalize.KeyDistrict, row.District},
		{normalize.KeyCategory, row.Category},
		{normalize.KeyArea, row.Area},
		{normalize.KeyUnits, row.Units},
		{normalize.KeyTowers, row.Towers},
		{normalize.KeyInvestor, row.Investor},
	}
	for _, t := range texts {
		if t.value == nil {
			continue
		}
		if err := put(t.key, *t.value); err != nil {
			return nil, err
		}
	}
	if row.Latitude != nil {
		if err := put(normalize.KeyLatitude, *row.Latitude); err != nil {
			return nil, err
		}
	}
	if row.Longitude != nil {
		if err := put(normalize.KeyLongitude, *row.Longitude); err != nil {
			return nil, err
		}
	}
	if len(row.Attributes) > 0 {
		item[normalize.KeyAttributes] = json.RawMessage(row.Attributes)
	}
	if len(row.PriceHistory) > 0 {
		item[normalize.KeyPriceHistory] = json.RawMessage(row.PriceHistory)
	}
	return item, nil
}
