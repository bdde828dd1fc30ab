package service

import (
	"sort"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/utils"
)

// DefaultPageSize is how many listings a search page shows.
const DefaultPageSize = 5

// QueryResult is one page of matches plus the number of matches before truncation.
type QueryResult struct {
	Page  []model.Listing
	Total int
}

// QueryEngine filters the shared catalog. It holds no mutable state.
type QueryEngine struct {
	catalog  *model.Catalog
	pageSize int
}

// NewQueryEngine creates a query engine over catalog.
func NewQueryEngine(catalog *model.Catalog, pageSize int) *QueryEngine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &QueryEngine{catalog: catalog, pageSize: pageSize}
}

// PageSize returns the page bound.
func (q *QueryEngine) PageSize() int { return q.pageSize }

// Catalog returns the underlying catalog.
func (q *QueryEngine) Catalog() *model.Catalog { return q.catalog }

// Query returns the cheapest matching listings, deduplicated and capped at the page size.
func (q *QueryEngine) Query(f model.FilterSet) QueryResult {
	match := q.compile(f)

	seen := make(map[string]bool)
	var hits []model.Listing
	for _, l := range q.catalog.Listings() {
		if !match(&l) {
			continue
		}
		// rows with neither id nor address cannot be told apart
		if key := l.Key(); key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		hits = append(hits, l)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i].Price, hits[j].Price
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	total := len(hits)
	if len(hits) > q.pageSize {
		hits = hits[:q.pageSize]
	}
	return QueryResult{Page: hits, Total: total}
}

type predicate func(*model.Listing) bool

// compile turns the active filters into a single predicate. A listing
// with no value in a column under an active filter never matches.
func (q *QueryEngine) compile(f model.FilterSet) predicate {
	var preds []predicate

	if f.BudgetMin != nil {
		lo := *f.BudgetMin
		preds = append(preds, func(l *model.Listing) bool { return l.Price != nil && *l.Price >= lo })
	}
	if f.BudgetMax != nil {
		hi := *f.BudgetMax
		preds = append(preds, func(l *model.Listing) bool { return l.Price != nil && *l.Price <= hi })
	}
	if f.Bedrooms != nil {
		nf := *f.Bedrooms
		preds = append(preds, func(l *model.Listing) bool {
			return l.Bedrooms != nil && utils.Compare(*l.Bedrooms, nf.Op, nf.Value)
		})
	}
	if f.Bathrooms != nil {
		nf := *f.Bathrooms
		preds = append(preds, func(l *model.Listing) bool {
			return l.Bathrooms != nil && utils.Compare(*l.Bathrooms, nf.Op, nf.Value)
		})
	}
	if f.SqftMin != nil {
		lo := *f.SqftMin
		preds = append(preds, func(l *model.Listing) bool { return l.SquareFootage != nil && *l.SquareFootage >= lo })
	}
	if f.HOAMax != nil {
		hi := *f.HOAMax
		preds = append(preds, func(l *model.Listing) bool { return l.HOAFee != nil && *l.HOAFee <= hi })
	}
	if f.DaysOnMarketMax != nil {
		hi := *f.DaysOnMarketMax
		preds = append(preds, func(l *model.Listing) bool { return l.DaysOnMarket != nil && *l.DaysOnMarket <= hi })
	}
	if f.PropertyType != nil {
		preds = append(preds, q.propertyTypePredicate(*f.PropertyType))
	}

	switch {
	case f.City != nil || f.State != nil:
		if f.City != nil {
			city := strings.TrimSpace(*f.City)
			preds = append(preds, func(l *model.Listing) bool { return l.City != "" && utils.ContainsFold(l.City, city) })
		}
		if f.State != nil {
			state := utils.NormalizeState(*f.State)
			preds = append(preds, func(l *model.Listing) bool { return strings.EqualFold(strings.TrimSpace(l.State), state) })
		}
	case f.Location != nil:
		preds = append(preds, locationPredicate(*f.Location))
	}

	if f.ZipCode != nil {
		zip := strings.TrimSpace(*f.ZipCode)
		preds = append(preds, func(l *model.Listing) bool { return zip != "" && strings.HasPrefix(l.ZipCode, zip) })
	}

	return func(l *model.Listing) bool {
		for _, p := range preds {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

func (q *QueryEngine) propertyTypePredicate(requested string) predicate {
	labels := utils.ResolvePropertyTypes(requested, q.catalog.PropertyTypes())
	if len(labels) == 0 {
		return func(l *model.Listing) bool {
			return l.PropertyType != "" && utils.ContainsFold(l.PropertyType, requested)
		}
	}
	allowed := make(map[string]bool, len(labels))
	for _, label := range labels {
		allowed[label] = true
	}
	return func(l *model.Listing) bool { return allowed[l.PropertyType] }
}

// locationPredicate requires every token of the free-text location to
// appear in the state, city or address of the listing.
func locationPredicate(location string) predicate {
	location = strings.NewReplacer(",", " ", ";", " ").Replace(location)
	tokens := strings.Fields(strings.ToLower(location))

	// state names up to three words ("district of columbia") become one
	// state-code term, longest match first
	var terms []string
	for i := 0; i < len(tokens); {
		n := stateNameWidth(tokens[i:])
		if n == 0 {
			terms = append(terms, tokens[i])
			i++
			continue
		}
		name := strings.Join(tokens[i:i+n], " ")
		code, _ := utils.StateCode(name)
		terms = append(terms, name+"|"+code)
		i += n
	}

	return func(l *model.Listing) bool {
		state := strings.ToLower(l.State)
		city := strings.ToLower(l.City)
		address := strings.ToLower(l.Address())
		for _, term := range terms {
			word, code, _ := strings.Cut(term, "|")
			matched := strings.Contains(state, word) || strings.Contains(city, word) || strings.Contains(address, word)
			if !matched && code != "" {
				matched = strings.EqualFold(strings.TrimSpace(l.State), code)
			}
			if !matched {
				return false
			}
		}
		return true
	}
}

func stateNameWidth(tokens []string) int {
	for n := min(3, len(tokens)); n >= 1; n-- {
		if _, ok := utils.StateCode(strings.Join(tokens[:n], " ")); ok {
			return n
		}
	}
	return 0
}
