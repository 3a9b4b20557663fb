// Package projector turns relational rows into graph records. Record keys are
// the destination attribute names; SQL NULL becomes nil and nothing is
// invented.
package projector

import (
	"database/sql"

	"github.com/persistorai/bookgraph/internal/models"
)

// Link record keys.
const (
	KeyBookID   = "book_id"
	KeyEntityID = "entity_id"
)

// Named projects Publisher, Author, Category or Subject rows.
func Named(rows []models.NamedRow) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Record{
			"id":   r.ID,
			"name": str(r.Name),
		})
	}

	return out
}

// Books projects denormalized book rows.
func Books(rows []models.BookRow) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, models.Record{
			"id":                    r.ID,
			"isbn10":                str(r.ISBN10),
			"isbn13":                str(r.ISBN13),
			"title":                 str(r.Title),
			"subtitle":              str(r.Subtitle),
			"description":           str(r.Description),
			"language_code":         str(r.LanguageCode),
			"publication_year":      integer(r.PublicationYear),
			"page_count":            integer(r.PageCount),
			"maturity_rating":       str(r.MaturityRating),
			"google_books_id":       str(r.GoogleBooksID),
			"google_preview_link":   str(r.GooglePreviewLink),
			"google_info_link":      str(r.GoogleInfoLink),
			"google_canonical_link": str(r.GoogleCanonicalLink),
			"avg_rating":            float(r.AvgRating),
			"ratings_count":         integer(r.RatingsCount),
			"format":                str(r.Format),
			"ebook_url":             str(r.EbookURL),
		})
	}

	return out
}

// Prices projects price rows into Price node records and PRICED_AT link
// records. The owning book id appears only in the link records.
func Prices(rows []models.PriceRow) (nodes, links []models.Record) {
	nodes = make([]models.Record, 0, len(rows))
	links = make([]models.Record, 0, len(rows))

	for i := range rows {
		r := &rows[i]
		nodes = append(nodes, models.Record{
			"id":                         r.ID,
			"country":                    str(r.Country),
			"on_sale_date":               str(r.OnSaleDate),
			"saleability":                str(r.Saleability),
			"list_price":                 float(r.ListPrice),
			"retail_price":               float(r.RetailPrice),
			"list_price_currency_code":   str(r.ListPriceCurrencyCode),
			"retail_price_currency_code": str(r.RetailPriceCurrencyCode),
			"buy_link":                   str(r.BuyLink),
		})
		links = append(links, models.Record{
			KeyBookID:   integer(r.BookID),
			KeyEntityID: r.ID,
		})
	}

	return nodes, links
}

// Links projects join table rows into {book_id, entity_id} pairs.
func Links(rows []models.LinkRow) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Record{
			KeyBookID:   integer(r.BookID),
			KeyEntityID: integer(r.EntityID),
		})
	}

	return out
}

func str(v sql.NullString) any {
	if !v.Valid {
		return nil
	}

	return v.String
}

func integer(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}

	return v.Int64
}

func float(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}

	return v.Float64
}
