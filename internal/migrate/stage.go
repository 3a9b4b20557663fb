package migrate

import (
	"errors"
	"fmt"

	"github.com/persistorai/bookgraph/internal/models"
)

// Stage is one step of a migration run.
type Stage string

// Migration stages.
const (
	StageReset          Stage = "RESET"
	StageIndex          Stage = "INDEX"
	StageLoadPublishers Stage = "LOAD_PUBLISHERS"
	StageLoadAuthors    Stage = "LOAD_AUTHORS"
	StageLoadCategories Stage = "LOAD_CATEGORIES"
	StageLoadSubjects   Stage = "LOAD_SUBJECTS"
	StageLoadBooks      Stage = "LOAD_BOOKS"
	StageLoadPrices     Stage = "LOAD_PRICES"
	StageLinkAuthors    Stage = "LINK_AUTHORS"
	StageLinkPublishers Stage = "LINK_PUBLISHERS"
	StageLinkCategories Stage = "LINK_CATEGORIES"
	StageLinkSubjects   Stage = "LINK_SUBJECTS"
	StageDone           Stage = "DONE"
)

// DefaultPlan is the stage sequence of a full migration.
var DefaultPlan = []Stage{
	StageReset,
	StageIndex,
	StageLoadPublishers,
	StageLoadAuthors,
	StageLoadCategories,
	StageLoadSubjects,
	StageLoadBooks,
	StageLoadPrices,
	StageLinkAuthors,
	StageLinkPublishers,
	StageLinkCategories,
	StageLinkSubjects,
	StageDone,
}

// ErrInvalidPlan is returned when a stage sequence breaks an ordering rule.
var ErrInvalidPlan = errors.New("invalid stage order")

type stageKind int

const (
	kindReset stageKind = iota
	kindIndex
	kindNodes
	kindLinks
	kindDone
)

type stageDef struct {
	kind   stageKind
	entity models.EntityType
	rel    models.RelationType
}

var stageDefs = map[Stage]stageDef{
	StageReset:          {kind: kindReset},
	StageIndex:          {kind: kindIndex},
	StageLoadPublishers: {kind: kindNodes, entity: models.EntityPublisher},
	StageLoadAuthors:    {kind: kindNodes, entity: models.EntityAuthor},
	StageLoadCategories: {kind: kindNodes, entity: models.EntityCategory},
	StageLoadSubjects:   {kind: kindNodes, entity: models.EntitySubject},
	StageLoadBooks:      {kind: kindNodes, entity: models.EntityBook},
	StageLoadPrices:     {kind: kindNodes, entity: models.EntityPrice, rel: models.RelPricedAt},
	StageLinkAuthors:    {kind: kindLinks, rel: models.RelAuthoredBy},
	StageLinkPublishers: {kind: kindLinks, rel: models.RelPublishedBy},
	StageLinkCategories: {kind: kindLinks, rel: models.RelCategorizedAs},
	StageLinkSubjects:   {kind: kindLinks, rel: models.RelHasSubject},
	StageDone:           {kind: kindDone},
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	_, ok := stageDefs[s]
	return ok
}

// Entity returns the node label a load stage creates, or "".
func (s Stage) Entity() models.EntityType { return stageDefs[s].entity }

// Relation returns the relationship type a stage creates, or "".
func (s Stage) Relation() models.RelationType { return stageDefs[s].rel }

// ValidateOrder checks that plan starts with RESET, creates indexes before any
// load, loads every node before creating any relationship that needs it, and
// ends with DONE. Each stage may appear at most once.
func ValidateOrder(plan []Stage) error {
	if len(plan) < 2 || plan[0] != StageReset || plan[len(plan)-1] != StageDone {
		return fmt.Errorf("%w: plan must start with %s and end with %s", ErrInvalidPlan, StageReset, StageDone)
	}

	seen := make(map[Stage]bool, len(plan))
	loaded := make(map[models.EntityType]bool, len(models.AllEntities))
	linking := false

	for _, s := range plan {
		def, ok := stageDefs[s]
		if !ok {
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidPlan, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: stage %s appears twice", ErrInvalidPlan, s)
		}
		seen[s] = true

		switch def.kind {
		case kindReset:
			if len(seen) != 1 {
				return fmt.Errorf("%w: %s must come first", ErrInvalidPlan, s)
			}
		case kindIndex:
			if len(loaded) > 0 {
				return fmt.Errorf("%w: %s must precede every load stage", ErrInvalidPlan, s)
			}
		case kindNodes:
			if !seen[StageIndex] {
				return fmt.Errorf("%w: %s runs before %s", ErrInvalidPlan, s, StageIndex)
			}
			if linking {
				return fmt.Errorf("%w: node stage %s follows a relationship stage", ErrInvalidPlan, s)
			}
			loaded[def.entity] = true
		case kindLinks, kindDone:
		}

		if def.rel != "" {
			if !loaded[def.rel.Source()] || !loaded[def.rel.Target()] {
				return fmt.Errorf("%w: %s creates %s before its endpoints are loaded", ErrInvalidPlan, s, def.rel)
			}
			linking = true
		}
	}

	return nil
}
