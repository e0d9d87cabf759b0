package normalize

import (
	"encoding/json"
	"testing"

	"projectmap/internal/model"
)

func item(t *testing.T, src string) Item {
	t.Helper()
	var it Item
	if err := json.Unmarshal([]byte(src), &it); err != nil {
		t.Fatalf("bad fixture %s: %v", src, err)
	}
	return it
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		src  string
		want Shape
	}{
		{`{"name":"A"}`, ShapeLegacyJSON},
		{`{"Tên dự án":"A"}`, ShapeLocalizedJSON},
		{`{"Tên dự án":"A","lat":"10"}`, ShapeLocalizedJSON},
		{`{"Tên dự án":"A","latitude":10}`, ShapeLegacyJSON},
		{`{}`, ShapeLocalizedJSON},
	}
	for _, tc := range tests {
		if got := DetectShape(item(t, tc.src)); got != tc.want {
			t.Errorf("DetectShape(%s) = %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestNormalizeEmptyItemUsesSentinels(t *testing.T) {
	p := Normalize(Item{})
	for name, got := range map[string]string{
		"name": p.Name, "province": p.Province, "district": p.District,
		"category": p.Category, "area": p.Area, "units": p.Units,
		"towers": p.Towers, "investor": p.Investor,
	} {
		if got != model.Unknown {
			t.Errorf("%s = %q, want %q", name, got, model.Unknown)
		}
	}
	if p.URL != model.UnknownURL {
		t.Errorf("url = %q, want %q", p.URL, model.UnknownURL)
	}
	if p.Latitude != nil || p.Longitude != nil {
		t.Errorf("coordinates should be absent")
	}
	if p.ID == "" {
		t.Errorf("id should be assigned")
	}
}

func TestNormalizeCanonicalWinsOverAlias(t *testing.T) {
	p := Normalize(item(t, `{"name":"Canonical","Tên dự án":"Alias","Chủ đầu tư":"Vin Group"}`))
	if p.Name != "Canonical" {
		t.Errorf("name = %q, want Canonical", p.Name)
	}
	if p.Investor != "Vin Group" {
		t.Errorf("investor = %q, want alias value", p.Investor)
	}
}

func TestNormalizeLocalizedItem(t *testing.T) {
	p := Normalize(item(t, `{
		"Tên dự án": "Khu đô thị Aqua",
		"Link": "https://example.vn/aqua",
		"Tỉnh/Thành phố": "Đồng Nai",
		"Quận/Huyện": "Biên Hòa",
		"Loại hình": "Đô thị",
		"Diện tích": "1000 ha",
		"Số căn": 3000,
		"Vĩ độ": "10,95",
		"Kinh độ": "106.85"
	}`))
	if p.Name != "Khu đô thị Aqua" || p.Province != "Đồng Nai" || p.District != "Biên Hòa" {
		t.Fatalf("unexpected record %+v", p)
	}
	if p.Units != "3000" {
		t.Errorf("units = %q, want 3000", p.Units)
	}
	if p.Latitude == nil || *p.Latitude != 10.95 {
		t.Errorf("latitude = %v, want 10.95", p.Latitude)
	}
	if p.Longitude == nil || *p.Longitude != 106.85 {
		t.Errorf("longitude = %v, want 106.85", p.Longitude)
	}
}

func TestNormalizeCoordinates(t *testing.T) {
	tests := []struct {
		src      string
		plotted  bool
		lat, lng float64
	}{
		{`{"name":"a","latitude":10.5,"longitude":106.7}`, true, 10.5, 106.7},
		{`{"name":"a","lat":"10.5","lng":"106.7"}`, true, 10.5, 106.7},
		{`{"name":"a","latitude":"abc","longitude":106.7}`, false, 0, 0},
		{`{"name":"a","latitude":10.5}`, false, 0, 0},
		{`{"name":"a","latitude":0,"longitude":0}`, true, 0, 0},
		{`{"name":"a","latitude":null,"lat":1,"lng":2}`, true, 1, 2},
	}
	for _, tc := range tests {
		p := Normalize(item(t, tc.src))
		if p.Plottable() != tc.plotted {
			t.Errorf("%s: plottable = %v, want %v", tc.src, p.Plottable(), tc.plotted)
			continue
		}
		if !tc.plotted {
			if p.Latitude != nil || p.Longitude != nil {
				t.Errorf("%s: lone coordinate kept", tc.src)
			}
			continue
		}
		if *p.Latitude != tc.lat || *p.Longitude != tc.lng {
			t.Errorf("%s: got (%v,%v), want (%v,%v)", tc.src, *p.Latitude, *p.Longitude, tc.lat, tc.lng)
		}
	}
}

func TestNormalizeAttributes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		keys []string
	}{
		{"object", `{"name":"a","attributes":{"z":"1","a":2,"m":true}}`, []string{"z", "a", "m"}},
		{"encoded string", `{"name":"a","attributes":"{\"b\":\"x\",\"a\":\"y\"}"}`, []string{"b", "a"}},
		{"alias", `{"Tên dự án":"a","Thông tin khác":{"Pháp lý":"Sổ hồng"}}`, []string{"Pháp lý"}},
		{"malformed string", `{"name":"a","attributes":"{not json"}`, nil},
		{"array", `{"name":"a","attributes":[1,2]}`, nil},
		{"number", `{"name":"a","attributes":5}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(item(t, tc.src))
			got := p.Attributes.Keys()
			if len(got) != len(tc.keys) {
				t.Fatalf("keys = %v, want %v", got, tc.keys)
			}
			for i := range got {
				if got[i] != tc.keys[i] {
					t.Fatalf("keys = %v, want %v", got, tc.keys)
				}
			}
		})
	}

	p := Normalize(item(t, `{"name":"a","attributes":{"floors":12,"tags":["x","y"]}}`))
	if v, _ := p.Attributes.Get("floors"); v != "12" {
		t.Errorf("floors = %q, want 12", v)
	}
	if v, _ := p.Attributes.Get("tags"); v != `["x","y"]` {
		t.Errorf("tags = %q", v)
	}
}

func TestNormalizePriceHistory(t *testing.T) {
	p := Normalize(item(t, `{"name":"a","priceHistory":{"labels":[2020,"2021","2022"],"min":[10,12],"avg":[15,"18"],"max":[20,22,30]}}`))
	if p.PriceHistory == nil {
		t.Fatal("price history missing")
	}
	h := p.PriceHistory
	if h.Len() != 2 || len(h.Min) != 2 || len(h.Avg) != 2 || len(h.Max) != 2 {
		t.Fatalf("series not aligned: %+v", h)
	}
	if h.Labels[0] != "2020" || h.Avg[1] != 18 {
		t.Errorf("unexpected history %+v", h)
	}

	encoded := Normalize(item(t, `{"name":"a","priceHistory":"{\"labels\":[\"Q1\"],\"min\":[1],\"avg\":[2],\"max\":[3]}"}`))
	if encoded.PriceHistory == nil || encoded.PriceHistory.Labels[0] != "Q1" {
		t.Errorf("encoded history not decoded: %+v", encoded.PriceHistory)
	}

	empty := Normalize(item(t, `{"name":"a","priceHistory":{"labels":[],"min":[],"avg":[],"max":[]}}`))
	if empty.PriceHistory != nil {
		t.Errorf("empty history should be dropped")
	}
}

func TestNormalizeRow(t *testing.T) {
	p := NormalizeRow(Row{
		"name":           " Eco Park ",
		"Chủ đầu tư":     "Ecopark",
		"lat":            "20.95",
		"lng":            "x",
		"attributes":     `{"Pháp lý":"Sổ hồng"}`,
		"priceHistory":   `{"labels":["2023"],"min":[40],"avg":[45],"max":[50]}`,
		"Tỉnh/Thành phố": "",
	})
	if p.Name != "Eco Park" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Investor != "Ecopark" {
		t.Errorf("investor = %q", p.Investor)
	}
	if p.Province != model.Unknown {
		t.Errorf("blank province = %q, want sentinel", p.Province)
	}
	if p.Plottable() {
		t.Errorf("bad longitude should make the record unplottable")
	}
	if v, ok := p.Attributes.Get("Pháp lý"); !ok || v != "Sổ hồng" {
		t.Errorf("attributes = %v", p.Attributes.Keys())
	}
	if p.PriceHistory == nil || p.PriceHistory.Max[0] != 50 {
		t.Errorf("history = %+v", p.PriceHistory)
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"name":null,"url":null,"latitude":{},"longitude":[]}`,
		`{"name":123,"attributes":null,"priceHistory":"nope"}`,
		`{"priceHistory":{"labels":"x"}}`,
		`{"Lịch sử giá":42,"Thông tin khác":"\"quoted\""}`,
	}
	for _, src := range inputs {
		p := Normalize(item(t, src))
		if p.Name == "" || p.URL == "" || p.Province == "" || p.District == "" ||
			p.Category == "" || p.Area == "" || p.Units == "" || p.Towers == "" || p.Investor == "" {
			t.Errorf("%s: blank string field in %+v", src, p)
		}
	}
}
