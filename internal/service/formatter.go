package service

import (
	"fmt"
	"strings"

	"rentassist/internal/model"

	"github.com/dustin/go-humanize"
)

func money(v *float64) string {
	if v == nil {
		return "price n/a"
	}
	return "$" + humanize.Commaf(*v)
}

func count(v *float64, unit string) string {
	if v == nil {
		return "? " + unit
	}
	return humanize.Ftoa(*v) + " " + unit
}

// formatListingLine renders one numbered result line plus its contact line.
func formatListingLine(pos int, l model.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d) %s | %s | %s / %s", pos, l.Address(), money(l.Price), count(l.Bedrooms, "bd"), count(l.Bathrooms, "ba"))
	if l.SquareFootage != nil {
		fmt.Fprintf(&b, " | %s sqft", humanize.Commaf(*l.SquareFootage))
	}
	if l.PropertyType != "" {
		fmt.Fprintf(&b, " | %s", l.PropertyType)
	}
	if l.DaysOnMarket != nil {
		fmt.Fprintf(&b, " | %s days on market", humanize.Ftoa(*l.DaysOnMarket))
	}
	if l.HOAFee != nil {
		fmt.Fprintf(&b, " | HOA $%s", humanize.Commaf(*l.HOAFee))
	}
	if l.AgentName != "" || l.AgentEmail != "" || l.AgentPhone != "" {
		b.WriteString("\n   Agent: ")
		b.WriteString(joinNonEmpty(", ", l.AgentName, l.AgentPhone, l.AgentEmail))
	}
	return b.String()
}

// formatPage renders a results page under a heading.
func formatPage(heading string, page []model.Listing) string {
	lines := []string{heading}
	for i, l := range page {
		lines = append(lines, formatListingLine(i+1, l))
	}
	return strings.Join(lines, "\n")
}

func formatSearchReply(f model.FilterSet, res QueryResult) string {
	if len(res.Page) == 0 {
		if f.IsEmpty() {
			return "I couldn't find any rentals right now."
		}
		return fmt.Sprintf("I couldn't find any rentals matching %s. Try widening your budget or location.", f.Summary())
	}
	heading := fmt.Sprintf("Here are the top %d of %d rentals", len(res.Page), res.Total)
	if !f.IsEmpty() {
		heading += " matching " + f.Summary()
	}
	return formatPage(heading+":", res.Page)
}

func formatDetails(pos int, l model.Listing) string {
	lines := []string{fmt.Sprintf("Details for #%d:", pos)}
	for _, f := range model.Fields() {
		v := f.Text(&l)
		if v == "" {
			continue
		}
		if f.Numeric && f.Name != "year_built" {
			if n := f.Number(&l); n != nil {
				v = humanize.Commaf(*n)
			}
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", f.Label, v))
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
