package migrate_test

import (
	"errors"
	"testing"

	"github.com/persistorai/bookgraph/internal/migrate"
)

func TestValidateOrder(t *testing.T) {
	m := func(stages ...migrate.Stage) []migrate.Stage { return stages }

	tests := []struct {
		name    string
		plan    []migrate.Stage
		wantErr bool
	}{
		{"default plan", migrate.DefaultPlan, false},
		{"reset and done only", m(migrate.StageReset, migrate.StageDone), false},
		{"named entities only", m(migrate.StageReset, migrate.StageIndex, migrate.StageLoadAuthors, migrate.StageDone), false},
		{"empty", nil, true},
		{"missing reset", m(migrate.StageIndex, migrate.StageDone), true},
		{"missing done", m(migrate.StageReset, migrate.StageIndex), true},
		{"reset twice", m(migrate.StageReset, migrate.StageReset, migrate.StageDone), true},
		{"unknown stage", m(migrate.StageReset, "LOAD_SHELVES", migrate.StageDone), true},
		{"load before index", m(migrate.StageReset, migrate.StageLoadBooks, migrate.StageIndex, migrate.StageDone), true},
		{"load without index", m(migrate.StageReset, migrate.StageLoadBooks, migrate.StageDone), true},
		{
			"link before target loaded",
			m(migrate.StageReset, migrate.StageIndex, migrate.StageLoadBooks, migrate.StageLinkAuthors,
				migrate.StageLoadAuthors, migrate.StageDone),
			true,
		},
		{
			"link without books",
			m(migrate.StageReset, migrate.StageIndex, migrate.StageLoadAuthors, migrate.StageLinkAuthors, migrate.StageDone),
			true,
		},
		{
			"prices before books",
			m(migrate.StageReset, migrate.StageIndex, migrate.StageLoadPrices, migrate.StageLoadBooks, migrate.StageDone),
			true,
		},
		{
			"node stage after prices",
			m(migrate.StageReset, migrate.StageIndex, migrate.StageLoadBooks, migrate.StageLoadPrices,
				migrate.StageLoadSubjects, migrate.StageDone),
			true,
		},
		{
			"done in the middle",
			m(migrate.StageReset, migrate.StageDone, migrate.StageIndex, migrate.StageDone),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := migrate.ValidateOrder(tt.plan)
			if tt.wantErr {
				if !errors.Is(err, migrate.ErrInvalidPlan) {
					t.Errorf("ValidateOrder() error = %v, want ErrInvalidPlan", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateOrder() unexpected error: %v", err)
			}
		})
	}
}

func TestStageMetadata(t *testing.T) {
	if migrate.StageLoadPrices.Entity() != "Price" || migrate.StageLoadPrices.Relation() != "PRICED_AT" {
		t.Errorf("LOAD_PRICES = %s/%s", migrate.StageLoadPrices.Entity(), migrate.StageLoadPrices.Relation())
	}
	if migrate.StageLinkSubjects.Relation() != "HAS_SUBJECT" {
		t.Errorf("LINK_SUBJECTS relation = %s", migrate.StageLinkSubjects.Relation())
	}
	if migrate.Stage("NOPE").Valid() {
		t.Error("unknown stage reported valid")
	}
}
