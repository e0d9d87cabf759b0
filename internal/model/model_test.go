package model

import (
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestAttributesKeepInsertionOrder(t *testing.T) {
	var a Attributes
	a.Set("Pháp lý", "Sổ hồng")
	a.Set("Tiện ích", "Hồ bơi")
	a.Set("Pháp lý", "Đang cập nhật")

	if got := a.Keys(); !reflect.DeepEqual(got, []string{"Pháp lý", "Tiện ích"}) {
		t.Errorf("keys = %v", got)
	}
	if v, _ := a.Get("Pháp lý"); v != "Đang cập nhật" {
		t.Errorf("overwritten value = %q", v)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"Pháp lý":"Đang cập nhật","Tiện ích":"Hồ bơi"}` {
		t.Errorf("json = %s", data)
	}
}

func TestParseAttributes(t *testing.T) {
	a, err := ParseAttributes([]byte(`{"z":"last","a":1.50,"b":true,"c":{"x": [1, 2]},"d":null}`))
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	want := map[string]string{"z": "last", "a": "1.50", "b": "true", "c": `{"x":[1,2]}`, "d": ""}
	if got := a.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "b", "c", "d"}) {
		t.Errorf("keys = %v", got)
	}
	for k, v := range want {
		if got, _ := a.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	for _, src := range []string{`[1,2]`, `"text"`, `42`} {
		if _, err := ParseAttributes([]byte(src)); !errors.Is(err, ErrNotObject) {
			t.Errorf("ParseAttributes(%s) err = %v", src, err)
		}
	}
	if _, err := ParseAttributes([]byte(`{"a":`)); err == nil {
		t.Errorf("truncated object should fail")
	}
}

func TestAttributesMergeAndEqual(t *testing.T) {
	var a, b Attributes
	a.Set("x", "1")
	b.Set("y", "2")
	b.Set("x", "3")
	a.Merge(b)

	var want Attributes
	want.Set("x", "3")
	want.Set("y", "2")
	if !a.Equal(want) {
		t.Errorf("merged = %v", a.Keys())
	}

	var reordered Attributes
	reordered.Set("y", "2")
	reordered.Set("x", "3")
	if a.Equal(reordered) {
		t.Errorf("order must matter for Equal")
	}
}

func TestAttributesUnmarshalNull(t *testing.T) {
	var p struct {
		Attributes Attributes `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(`{"attributes":null}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Attributes.Len() != 0 {
		t.Errorf("len = %d", p.Attributes.Len())
	}
}

func TestNormalizeInvestor(t *testing.T) {
	cases := map[string]string{"": Unknown, "   ": Unknown, " Novaland ": "Novaland", Unknown: Unknown}
	for in, want := range cases {
		if got := NormalizeInvestor(in); got != want {
			t.Errorf("NormalizeInvestor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriceHistoryBounds(t *testing.T) {
	h := PriceHistory{Labels: []string{"a", "b"}, Min: []float64{10, 12}, Avg: []float64{15, 18}, Max: []float64{20, 22}}
	lo, hi, ok := h.Bounds()
	if !ok || lo != 10 || hi != 22 {
		t.Errorf("bounds = %v %v %v", lo, hi, ok)
	}
	if _, _, ok := (PriceHistory{}).Bounds(); ok {
		t.Errorf("empty history has no bounds")
	}
}

func TestPlottable(t *testing.T) {
	lat, lng := 10.0, 106.0
	if !(Project{Latitude: &lat, Longitude: &lng}).Plottable() {
		t.Errorf("both coordinates should plot")
	}
	if (Project{Latitude: &lat}).Plottable() {
		t.Errorf("a lone coordinate should not plot")
	}
}

func TestFilterReducers(t *testing.T) {
	f := DefaultFilter().WithProvince("Đồng Nai").WithDistrict("Biên Hòa").WithInvestor("Novaland")
	if f.District != "Biên Hòa" {
		t.Fatalf("district = %q", f.District)
	}

	moved := f.WithProvince("Hà Nội")
	if moved.District != All || moved.Investor != "Novaland" {
		t.Errorf("province change = %+v", moved)
	}
	if f.Province != "Đồng Nai" {
		t.Errorf("reducer mutated its receiver")
	}

	if got := f.WithMinProjects(-3).MinProjects; got != 0 {
		t.Errorf("negative threshold = %d", got)
	}
	if got := f.WithInvestor("").Investor; got != All {
		t.Errorf("blank investor = %q", got)
	}
}

func TestFilterQueryRoundTrip(t *testing.T) {
	f := DefaultFilter().
		WithProvince("Đồng Nai").
		WithDistrict("Biên Hòa").
		WithInvestor(Unknown).
		WithMinProjects(3).
		WithQuery("aqua").
		WithInvestorQuery("nova").
		WithLabels(true)

	if got := FilterFromQuery(f.Values()); got != f {
		t.Errorf("round trip = %+v, want %+v", got, f)
	}
	if got := DefaultFilter().Values(); len(got) != 0 {
		t.Errorf("defaults encode to %v", got)
	}

	bad := FilterFromQuery(url.Values{"minProjects": {"many"}, "labels": {"maybe"}})
	if bad != DefaultFilter() {
		t.Errorf("malformed values = %+v", bad)
	}

	for _, raw := range []string{"", All} {
		if got := FilterFromQuery(url.Values{"province": {raw}, "investor": {raw}}); got != DefaultFilter() {
			t.Errorf("province/investor %q = %+v, want no selection", raw, got)
		}
	}
}
