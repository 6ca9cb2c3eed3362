package search

import (
	"reflect"
	"testing"

	"petcare/internal/models"
	"petcare/internal/utils"
)

func place(id string, opts ...func(*models.Place)) models.Place {
	p := models.Place{ID: id, Name: id, Type: models.PlaceTypeVet, Source: models.SourceGoogle}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func ext(id string) func(*models.Place) { return func(p *models.Place) { p.ExternalID = &id } }
func phone(s string) func(*models.Place) { return func(p *models.Place) { p.Phone = &s } }
func website(s string) func(*models.Place) { return func(p *models.Place) { p.Website = &s } }
func dist(km float64) func(*models.Place) { return func(p *models.Place) { p.DistanceKm = &km } }
func rating(r float64, n int) func(*models.Place) {
	return func(p *models.Place) {
		p.Rating = &r
		p.ReviewCount = &n
	}
}
func source(s models.Source) func(*models.Place) { return func(p *models.Place) { p.Source = s } }

func ids(items []models.Place) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name  string
		items []models.Place
		want  []string
	}{
		{"empty", nil, []string{}},
		{
			"same external id",
			[]models.Place{place("a", ext("1")), place("b", ext("1"))},
			[]string{"a"},
		},
		{
			"shared phone with different external ids",
			[]models.Place{place("a", ext("1"), phone("(206) 555-0123")), place("b", ext("2"), phone("2065550123"))},
			[]string{"a"},
		},
		{
			"website trailing slash",
			[]models.Place{
				place("google:x", source(models.SourceGoogle), website("https://clinicx.com")),
				place("db-1", source(models.SourceDB), website("https://clinicx.com/")),
			},
			[]string{"google:x"},
		},
		{
			"website scheme ignored",
			[]models.Place{
				place("yelp:x", source(models.SourceYelp), website("http://clinicx.com")),
				place("db-1", source(models.SourceDB), website("https://ClinicX.com/")),
			},
			[]string{"yelp:x"},
		},
		{
			"website paths stay distinct",
			[]models.Place{
				place("a", website("https://chain.example/seattle")),
				place("b", website("https://chain.example/tacoma")),
			},
			[]string{"a", "b"},
		},
		{
			"website keys registered even when kept by another key",
			[]models.Place{
				place("a", ext("1"), website("a.example")),
				place("b", ext("2"), phone("111")),
				place("c", phone("222"), website("https://a.example/")),
			},
			[]string{"a", "b"},
		},
		{
			"no keys never collide",
			[]models.Place{place("a"), place("b")},
			[]string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Dedupe(tt.items))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dedupe = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupeIdempotent(t *testing.T) {
	items := []models.Place{
		place("a", ext("1"), phone("1")),
		place("b", ext("1")),
		place("c", website("c.example")),
		place("d", phone("1")),
		place("e", website("https://c.example/#top")),
		place("f"),
	}

	once := Dedupe(items)
	twice := Dedupe(once)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("Dedupe not idempotent: %v then %v", ids(once), ids(twice))
	}
	if len(once) > len(items) {
		t.Errorf("Dedupe grew the list")
	}
	if want := []string{"a", "c", "f"}; !reflect.DeepEqual(ids(once), want) {
		t.Errorf("Dedupe = %v, want %v", ids(once), want)
	}
}

func TestSortByDistance(t *testing.T) {
	items := []models.Place{
		place("none"),
		place("far", dist(5)),
		place("near-low", dist(1), rating(3, 10)),
		place("near-high-few", dist(1), rating(4.5, 2)),
		place("near-high-many", dist(1), rating(4.5, 30)),
		place("near-unrated", dist(1)),
	}

	Sort(items, models.SortDistance)

	want := []string{"near-high-many", "near-high-few", "near-low", "near-unrated", "far", "none"}
	if got := ids(items); !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSortByRating(t *testing.T) {
	items := []models.Place{
		place("unrated", dist(0.1)),
		place("good-far", rating(4.8, 10), dist(9)),
		place("good-near", rating(4.8, 10), dist(2)),
		place("good-popular", rating(4.8, 99)),
		place("ok", rating(3.9, 500), dist(1)),
	}

	Sort(items, models.SortRating)

	want := []string{"good-popular", "good-near", "good-far", "ok", "unrated"}
	if got := ids(items); !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSortDeterministic(t *testing.T) {
	build := func() []models.Place {
		return []models.Place{
			place("a", dist(2)), place("b"), place("c", dist(2)), place("d", dist(1)), place("e"),
		}
	}

	first := build()
	Sort(first, models.SortDistance)
	second := build()
	Sort(second, models.SortDistance)
	Sort(second, models.SortDistance)

	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("orders differ: %v vs %v", ids(first), ids(second))
	}
	if want := []string{"d", "a", "c", "b", "e"}; !reflect.DeepEqual(ids(first), want) {
		t.Errorf("Sort = %v, want %v", ids(first), want)
	}
}

func TestMerge(t *testing.T) {
	center := utils.Point{Lat: 47.6062, Lng: -122.3321}
	withCoords := place("db-1", source(models.SourceDB), phone("2065550123"))
	withCoords.SetCoordinates(47.6062, -122.3321)

	external := []models.Place{
		place("google:a", ext("a"), phone("(206) 555-0123"), dist(3)),
		place("google:b", ext("b"), dist(1)),
	}
	store := []models.Place{withCoords, place("db-2", source(models.SourceDB))}

	got := Merge(center, models.SortDistance, 2, external, store)

	if want := []string{"google:b", "google:a"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Merge = %v, want %v", ids(got), want)
	}

	all := Merge(center, models.SortDistance, 10, store)
	if all[0].ID != "db-1" || all[0].DistanceKm == nil || *all[0].DistanceKm != 0 {
		t.Errorf("distance backfill missing: %+v", all[0])
	}
}
