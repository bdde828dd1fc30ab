package service

import (
	"reflect"
	"strings"
	"testing"

	"rentassist/internal/model"
)

func TestQueryEngineBudget(t *testing.T) {
	catalog := model.NewCatalog([]model.Listing{
		{ID: "p3", Price: f(500000)},
		{ID: "p1", Price: f(150000)},
		{ID: "p2", Price: f(300000)},
	})
	engine := NewQueryEngine(catalog, 5)

	res := engine.Query(model.FilterSet{BudgetMax: model.Float(300000)})
	if got, want := keys(res.Page), []string{"p1", "p2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Query() = %v, want %v", got, want)
	}

	res = engine.Query(model.FilterSet{BudgetMin: model.Float(300000)})
	if got, want := keys(res.Page), []string{"p2", "p3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Query() = %v, want %v", got, want)
	}
}

func TestQueryEngineFilters(t *testing.T) {
	engine := testEngine(5)
	pine := "500 Pine St, Austin, TX 78705"

	tests := []struct {
		name  string
		f     model.FilterSet
		want  []string
		total int
	}{
		{
			name:  "no filters returns cheapest page, deduplicated, unpriced last",
			f:     model.FilterSet{},
			want:  []string{"a4", "a2", "a1", pine, "a3"},
			total: 7,
		},
		{
			name: "bedrooms and city keep unpriced match at the end",
			f: model.FilterSet{
				Bedrooms: &model.NumericFilter{Op: ">=", Value: 3},
				City:     model.String("Austin"),
			},
			want:  []string{"a1", pine, "a8"},
			total: 3,
		},
		{
			name:  "missing bedrooms never match",
			f:     model.FilterSet{Bedrooms: &model.NumericFilter{Op: "<", Value: 10}, City: model.String("austin")},
			want:  []string{"a2", "a1", pine, "a8"},
			total: 4,
		},
		{
			name:  "exact bedrooms",
			f:     model.FilterSet{Bedrooms: &model.NumericFilter{Op: "=", Value: 1}},
			want:  []string{"a7"},
			total: 1,
		},
		{
			name:  "apartment resolves to multi-family and condo",
			f:     model.FilterSet{PropertyType: model.String("apartment")},
			want:  []string{"a2", "a3", "a7"},
			total: 3,
		},
		{
			name:  "property type and city",
			f:     model.FilterSet{PropertyType: model.String("apartment"), City: model.String("Austin")},
			want:  []string{"a2"},
			total: 1,
		},
		{
			name:  "state is normalized",
			f:     model.FilterSet{State: model.String("florida")},
			want:  []string{"a7"},
			total: 1,
		},
		{
			name:  "location with full state name",
			f:     model.FilterSet{Location: model.String("Austin, Texas")},
			want:  []string{"a4", "a2", "a1", pine, "a8"},
			total: 5,
		},
		{
			name:  "location with state code",
			f:     model.FilterSet{Location: model.String("miami fl")},
			want:  []string{"a7"},
			total: 1,
		},
		{
			name:  "location with two-word state",
			f:     model.FilterSet{Location: model.String("New York")},
			want:  nil,
			total: 0,
		},
		{
			name:  "city wins over location",
			f:     model.FilterSet{City: model.String("Dallas"), Location: model.String("Miami")},
			want:  []string{"a3"},
			total: 1,
		},
		{
			name:  "zip prefix",
			f:     model.FilterSet{ZipCode: model.String("7870")},
			want:  []string{"a4", "a2", "a1", pine},
			total: 4,
		},
		{
			name:  "minimum square footage excludes missing",
			f:     model.FilterSet{SqftMin: model.Float(1000)},
			want:  []string{"a1"},
			total: 1,
		},
		{
			name:  "HOA limit excludes missing",
			f:     model.FilterSet{HOAMax: model.Float(200)},
			want:  []string{pine},
			total: 1,
		},
		{
			name:  "days on market limit",
			f:     model.FilterSet{DaysOnMarketMax: model.Float(10)},
			want:  []string{"a1"},
			total: 1,
		},
		{
			name:  "nothing matches",
			f:     model.FilterSet{BudgetMax: model.Float(100)},
			want:  nil,
			total: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Query(tt.f)
			got := keys(res.Page)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query() = %v, want %v", got, tt.want)
			}
			if res.Total != tt.total {
				t.Errorf("Total = %d, want %d", res.Total, tt.total)
			}
		})
	}
}

func TestQueryEnginePageSize(t *testing.T) {
	engine := testEngine(2)
	res := engine.Query(model.FilterSet{})
	if got, want := keys(res.Page), []string{"a4", "a2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Query() = %v, want %v", got, want)
	}
	if res.Total != 7 {
		t.Errorf("Total = %d, want 7", res.Total)
	}

	if got := NewQueryEngine(model.NewCatalog(nil), 0).PageSize(); got != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", got, DefaultPageSize)
	}
}

func TestQueryEngineStableTies(t *testing.T) {
	catalog := model.NewCatalog([]model.Listing{
		{ID: "b", Price: f(1000)},
		{ID: "a", Price: f(1000)},
		{ID: "c", Price: f(900)},
	})
	res := NewQueryEngine(catalog, 5).Query(model.FilterSet{})
	if got, want := keys(res.Page), []string{"c", "b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Query() = %v, want %v", got, want)
	}
}

func TestQueryEngineKeepsKeylessRows(t *testing.T) {
	catalog := model.NewCatalog([]model.Listing{
		{PropertyType: "Condo", Price: f(1500)},
		{PropertyType: "Condo", Price: f(1200)},
		{PropertyType: "Condo", Price: f(1800)},
	})
	res := NewQueryEngine(catalog, 5).Query(model.FilterSet{PropertyType: model.String("condo")})
	if res.Total != 3 || len(res.Page) != 3 {
		t.Fatalf("page=%d total=%d, want 3 and 3", len(res.Page), res.Total)
	}
	if *res.Page[0].Price != 1200 || *res.Page[2].Price != 1800 {
		t.Errorf("prices out of order: %v %v", *res.Page[0].Price, *res.Page[2].Price)
	}
}

func TestQueryEngineThreeWordStateName(t *testing.T) {
	catalog := model.NewCatalog([]model.Listing{
		{ID: "dc1", City: "Washington", State: "DC", Price: f(2400)},
		{ID: "va1", City: "Arlington", State: "VA", Price: f(2100)},
	})
	engine := NewQueryEngine(catalog, 5)

	for _, loc := range []string{"District of Columbia", "Washington, District of Columbia"} {
		res := engine.Query(model.FilterSet{Location: model.String(loc)})
		if got, want := keys(res.Page), []string{"dc1"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Query(%q) = %v, want %v", loc, got, want)
		}
	}
}

func TestFormatSearchReply(t *testing.T) {
	engine := testEngine(5)

	f := model.FilterSet{BudgetMax: model.Float(100), City: model.String("Austin")}
	reply := formatSearchReply(f, engine.Query(f))
	if !strings.Contains(reply, "couldn't find") || !strings.Contains(reply, f.Summary()) {
		t.Errorf("no-match reply = %q, want it to echo %q", reply, f.Summary())
	}

	f = model.FilterSet{City: model.String("Dallas")}
	reply = formatSearchReply(f, engine.Query(f))
	for _, want := range []string{"top 1 of 1", "1) 300 Main St", "$2,500", "Agent: Bob Ray, bob@example.com"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply %q missing %q", reply, want)
		}
	}
}

func TestExplainMatch(t *testing.T) {
	l := testListings()[0]
	got := ExplainMatch(l, model.FilterSet{BudgetMax: model.Float(2000), City: model.String("Austin")})
	want := []string{ReasonPriceMatch, ReasonLocationMatch, ReasonFreshListing}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExplainMatch() = %v, want %v", got, want)
	}

	got = ExplainMatch(testListings()[6], model.FilterSet{})
	if !reflect.DeepEqual(got, []string{ReasonGeneralMatch}) {
		t.Errorf("ExplainMatch() = %v, want general match", got)
	}

	page := rankPage(testListings()[:2], model.FilterSet{}, []string{"a2"})
	if page[0].Position != 1 || page[1].Position != 2 {
		t.Errorf("positions = %d, %d", page[0].Position, page[1].Position)
	}
	if last := page[1].MatchedReasons[len(page[1].MatchedReasons)-1]; last != ReasonFavorite {
		t.Errorf("favorite reason missing: %v", page[1].MatchedReasons)
	}
}
