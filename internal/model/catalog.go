package model

import "sort"

// Catalog is the immutable listing table shared by every request.
type Catalog struct {
	listings      []Listing
	byKey         map[string]int
	propertyTypes []string
}

// NewCatalog indexes listings. The slice must not be modified afterwards.
func NewCatalog(listings []Listing) *Catalog {
	c := &Catalog{
		listings: listings,
		byKey:    make(map[string]int, len(listings)),
	}
	seen := make(map[string]bool)
	for i := range listings {
		if k := listings[i].Key(); k != "" {
			if _, dup := c.byKey[k]; !dup {
				c.byKey[k] = i
			}
		}
		if t := listings[i].PropertyType; t != "" && !seen[t] {
			seen[t] = true
			c.propertyTypes = append(c.propertyTypes, t)
		}
	}
	sort.Strings(c.propertyTypes)
	return c
}

// Listings returns the rows in file order. Callers must treat it as read-only.
func (c *Catalog) Listings() []Listing { return c.listings }

// PropertyTypes returns the distinct property type labels.
func (c *Catalog) PropertyTypes() []string { return c.propertyTypes }

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.listings) }

// Find looks a listing up by key.
func (c *Catalog) Find(key string) (Listing, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Listing{}, false
	}
	return c.listings[i], true
}
