package models

import "database/sql"

// NamedRow is a row of one of the (id, name) tables: Publisher, Author,
// Category or Subject.
type NamedRow struct {
	ID   int64
	Name sql.NullString
}

// BookRow is a Book row left-joined with its Ratings, PhysicalBook and EBook
// satellites. Satellite columns are null when the book has no satellite row.
type BookRow struct {
	ID                  int64
	ISBN10              sql.NullString
	ISBN13              sql.NullString
	Title               sql.NullString
	Subtitle            sql.NullString
	Description         sql.NullString
	LanguageCode        sql.NullString
	PublicationYear     sql.NullInt64
	PageCount           sql.NullInt64
	MaturityRating      sql.NullString
	GoogleBooksID       sql.NullString
	GooglePreviewLink   sql.NullString
	GoogleInfoLink      sql.NullString
	GoogleCanonicalLink sql.NullString
	AvgRating           sql.NullFloat64
	RatingsCount        sql.NullInt64
	Format              sql.NullString
	EbookURL            sql.NullString
}

// PriceRow is a Price row. BookID identifies the owning book.
type PriceRow struct {
	ID                      int64
	BookID                  sql.NullInt64
	Country                 sql.NullString
	OnSaleDate              sql.NullString
	Saleability             sql.NullString
	ListPrice               sql.NullFloat64
	RetailPrice             sql.NullFloat64
	ListPriceCurrencyCode   sql.NullString
	RetailPriceCurrencyCode sql.NullString
	BuyLink                 sql.NullString
}

// LinkRow is a join table row pairing a book with another entity.
type LinkRow struct {
	BookID   sql.NullInt64
	EntityID sql.NullInt64
}

// Record is a flat attribute map destined for one graph node or one
// relationship pair. Values are nil, int64, float64 or string.
type Record map[string]any
