// Package models defines the catalogue entities, relationship types and
// relational row shapes shared by the migration pipeline.
package models

import "strings"

// EntityType is a graph node label. Each entity type is backed by exactly one
// relational table whose primary key becomes the node's id attribute.
type EntityType string

// Node labels, in the order their nodes are loaded.
const (
	EntityPublisher EntityType = "Publisher"
	EntityAuthor    EntityType = "Author"
	EntityCategory  EntityType = "Category"
	EntitySubject   EntityType = "Subject"
	EntityBook      EntityType = "Book"
	EntityPrice     EntityType = "Price"
)

// AllEntities lists every node label in load order.
var AllEntities = []EntityType{
	EntityPublisher,
	EntityAuthor,
	EntityCategory,
	EntitySubject,
	EntityBook,
	EntityPrice,
}

// tables maps each entity type to its backing table and primary key column.
var tables = map[EntityType][2]string{
	EntityPublisher: {"Publisher", "publisher_id"},
	EntityAuthor:    {"Author", "author_id"},
	EntityCategory:  {"Category", "category_id"},
	EntitySubject:   {"Subject", "subject_id"},
	EntityBook:      {"Book", "book_id"},
	EntityPrice:     {"Price", "price_id"},
}

// Valid reports whether e is a known node label.
func (e EntityType) Valid() bool {
	_, ok := tables[e]
	return ok
}

// Table returns the relational table backing e.
func (e EntityType) Table() string { return tables[e][0] }

// KeyColumn returns the primary key column of e's table.
func (e EntityType) KeyColumn() string { return tables[e][1] }

// IndexName returns the name of the graph lookup index on e's identity key,
// e.g. "book_id".
func (e EntityType) IndexName() string {
	return strings.ToLower(string(e)) + "_id"
}

// Named reports whether e is one of the simple (id, name) entity types.
func (e EntityType) Named() bool {
	switch e {
	case EntityPublisher, EntityAuthor, EntityCategory, EntitySubject:
		return true
	default:
		return false
	}
}

func (e EntityType) String() string { return string(e) }
