package source

import "github.com/persistorai/bookgraph/internal/models"

func scanNamed(scan func(dest ...any) error) (models.NamedRow, error) {
	var n models.NamedRow
	err := scan(&n.ID, &n.Name)

	return n, err
}

func scanBook(scan func(dest ...any) error) (models.BookRow, error) {
	var b models.BookRow
	err := scan(
		&b.ID,
		&b.ISBN10,
		&b.ISBN13,
		&b.Title,
		&b.Subtitle,
		&b.Description,
		&b.LanguageCode,
		&b.PublicationYear,
		&b.PageCount,
		&b.MaturityRating,
		&b.GoogleBooksID,
		&b.GooglePreviewLink,
		&b.GoogleInfoLink,
		&b.GoogleCanonicalLink,
		&b.AvgRating,
		&b.RatingsCount,
		&b.Format,
		&b.EbookURL,
	)

	return b, err
}

func scanPrice(scan func(dest ...any) error) (models.PriceRow, error) {
	var p models.PriceRow
	err := scan(
		&p.ID,
		&p.BookID,
		&p.Country,
		&p.OnSaleDate,
		&p.Saleability,
		&p.ListPrice,
		&p.RetailPrice,
		&p.ListPriceCurrencyCode,
		&p.RetailPriceCurrencyCode,
		&p.BuyLink,
	)

	return p, err
}

func scanLink(scan func(dest ...any) error) (models.LinkRow, error) {
	var l models.LinkRow
	err := scan(&l.BookID, &l.EntityID)

	return l, err
}
