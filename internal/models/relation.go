package models

// RelationType is a graph relationship type. Every relationship is directed
// from a Book node to a node of the relation's target type.
type RelationType string

// Relationship types.
const (
	RelAuthoredBy    RelationType = "AUTHORED_BY"
	RelPublishedBy   RelationType = "PUBLISHED_BY"
	RelCategorizedAs RelationType = "CATEGORIZED_AS"
	RelHasSubject    RelationType = "HAS_SUBJECT"
	RelPricedAt      RelationType = "PRICED_AT"
)

// AllRelations lists every relationship type.
var AllRelations = []RelationType{
	RelPricedAt,
	RelAuthoredBy,
	RelPublishedBy,
	RelCategorizedAs,
	RelHasSubject,
}

type relationDef struct {
	target    EntityType
	joinTable string
	column    string
}

// PRICED_AT has no join table: the link is Price.book_id.
var relations = map[RelationType]relationDef{
	RelAuthoredBy:    {EntityAuthor, "BookAuthor", "author_id"},
	RelPublishedBy:   {EntityPublisher, "BookPublisher", "publisher_id"},
	RelCategorizedAs: {EntityCategory, "BookCategory", "category_id"},
	RelHasSubject:    {EntitySubject, "BookSubject", "subject_id"},
	RelPricedAt:      {EntityPrice, "", ""},
}

// Valid reports whether r is a known relationship type.
func (r RelationType) Valid() bool {
	_, ok := relations[r]
	return ok
}

// Source returns the label at the start of every r relationship.
func (r RelationType) Source() EntityType { return EntityBook }

// Target returns the label at the end of every r relationship.
func (r RelationType) Target() EntityType { return relations[r].target }

// JoinTable returns the relational join table backing r, or "" when r is
// derived from a foreign key column instead.
func (r RelationType) JoinTable() string { return relations[r].joinTable }

// JoinColumn returns the join table column referencing the target entity.
func (r RelationType) JoinColumn() string { return relations[r].column }

func (r RelationType) String() string { return string(r) }
