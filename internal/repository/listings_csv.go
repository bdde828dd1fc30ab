package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/utils"
)

// ErrNoListings is returned when the listings file has no data rows.
var ErrNoListings = errors.New("listings file has no rows")

type cellSetter func(l *model.Listing, cell string)

func text(set func(*model.Listing, string)) cellSetter {
	return func(l *model.Listing, cell string) {
		cell = strings.TrimSpace(cell)
		if strings.EqualFold(cell, "nan") || strings.EqualFold(cell, "null") || strings.EqualFold(cell, "none") {
			cell = ""
		}
		set(l, cell)
	}
}

func number(set func(*model.Listing, *float64)) cellSetter {
	return func(l *model.Listing, cell string) {
		if v, ok := utils.ParseNumber(cell); ok {
			set(l, &v)
			return
		}
		set(l, nil)
	}
}

// columns maps squashed header names (lower-case, alphanumerics only) to setters.
var columns = map[string]cellSetter{
	"id":               text(func(l *model.Listing, v string) { l.ID = v }),
	"formattedaddress": text(func(l *model.Listing, v string) { l.FormattedAddress = v }),
	"address":          text(func(l *model.Listing, v string) { l.FormattedAddress = v }),
	"addressline1":     text(func(l *model.Listing, v string) { l.AddressLine1 = v }),
	"addressline2":     text(func(l *model.Listing, v string) { l.AddressLine2 = v }),
	"city":             text(func(l *model.Listing, v string) { l.City = v }),
	"state":            text(func(l *model.Listing, v string) { l.State = v }),
	"zipcode":          text(func(l *model.Listing, v string) { l.ZipCode = v }),
	"zip":              text(func(l *model.Listing, v string) { l.ZipCode = v }),
	"county":           text(func(l *model.Listing, v string) { l.County = v }),
	"latitude":         number(func(l *model.Listing, v *float64) { l.Latitude = v }),
	"longitude":        number(func(l *model.Listing, v *float64) { l.Longitude = v }),
	"propertytype":     text(func(l *model.Listing, v string) { l.PropertyType = v }),
	"bedrooms":         number(func(l *model.Listing, v *float64) { l.Bedrooms = v }),
	"bathrooms":        number(func(l *model.Listing, v *float64) { l.Bathrooms = v }),
	"squarefootage":    number(func(l *model.Listing, v *float64) { l.SquareFootage = v }),
	"sqft":             number(func(l *model.Listing, v *float64) { l.SquareFootage = v }),
	"lotsize":          number(func(l *model.Listing, v *float64) { l.LotSize = v }),
	"yearbuilt":        number(func(l *model.Listing, v *float64) { l.YearBuilt = v }),
	"status":           text(func(l *model.Listing, v string) { l.Status = v }),
	"price":            number(func(l *model.Listing, v *float64) { l.Price = v }),
	"rent":             number(func(l *model.Listing, v *float64) { l.Price = v }),
	"listingtype":      text(func(l *model.Listing, v string) { l.ListingType = v }),
	"listeddate":       text(func(l *model.Listing, v string) { l.ListedDate = v }),
	"daysonmarket":     number(func(l *model.Listing, v *float64) { l.DaysOnMarket = v }),
	"mlsnumber":        text(func(l *model.Listing, v string) { l.MLSNumber = v }),
	"hoafee":           number(func(l *model.Listing, v *float64) { l.HOAFee = v }),
	"hoa":              number(func(l *model.Listing, v *float64) { l.HOAFee = v }),
	"agentname":        text(func(l *model.Listing, v string) { l.AgentName = v }),
	"agentphone":       text(func(l *model.Listing, v string) { l.AgentPhone = v }),
	"agentemail":       text(func(l *model.Listing, v string) { l.AgentEmail = v }),
	"agentwebsite":     text(func(l *model.Listing, v string) { l.AgentWebsite = v }),
	"officename":       text(func(l *model.Listing, v string) { l.OfficeName = v }),
	"officephone":      text(func(l *model.Listing, v string) { l.OfficePhone = v }),
	"officeemail":      text(func(l *model.Listing, v string) { l.OfficeEmail = v }),
	"officewebsite":    text(func(l *model.Listing, v string) { l.OfficeWebsite = v }),
}

var headerJunk = regexp.MustCompile(`[^a-z0-9]+`)

func squashHeader(h string) string {
	h = headerJunk.ReplaceAllString(strings.ToLower(h), "")
	// nested provider exports: listingAgent.name, listingOffice.phone
	h = strings.Replace(h, "listingagent", "agent", 1)
	return strings.Replace(h, "listingoffice", "office", 1)
}

// LoadListingsCSV reads the listings file once at startup.
func LoadListingsCSV(path string) ([]model.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listings file: %w", err)
	}
	defer f.Close()

	listings, err := ReadListingsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return listings, nil
}

// ReadListingsCSV parses listings from r. Unknown columns are ignored and
// malformed numeric cells become nil.
func ReadListingsCSV(r io.Reader) ([]model.Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoListings
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	setters := make([]cellSetter, len(header))
	for i, h := range header {
		setters[i] = columns[squashHeader(h)]
	}

	var listings []model.Listing
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		var l model.Listing
		for i, cell := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&l, cell)
			}
		}
		listings = append(listings, l)
	}

	if len(listings) == 0 {
		return nil, ErrNoListings
	}
	return listings, nil
}
