package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Schema tooling.

GENERATE_MODELS=true migrates every model, prints the column report and writes
typed query helpers to ./generated.

GENERATE_COLUMN_REPORT=true only prints the column report: columns that exist
in the database but have no field in the matching model, e.g.

	--- Table: projects ---
	  - legacy_owner_id
*/

// GenerateModels migrates the schema and runs gorm/gen over all models.
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	migrateDB := db.Session(&gorm.Session{SkipDefaultTransaction: true, PrepareStmt: false})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}
	log.Info().Msg("database migration completed")

	if err := PrintColumnMismatchReport(db); err != nil {
		return err
	}

	g.Execute()
	log.Info().Msg("model generation complete")
	return nil
}

// ColumnMismatches returns, per table, the columns the models do not map.
// Tables that do not exist yet are skipped.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	cache := &sync.Map{}
	out := make(map[string][]string)

	for table, model := range TableModels() {
		if !db.Migrator().HasTable(table) {
			continue
		}

		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse model for %s: %w", table, err)
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", table, err)
		}

		known := make(map[string]bool, len(s.DBNames))
		for _, name := range s.DBNames {
			known[name] = true
		}

		var missing []string
		for _, ct := range columnTypes {
			if !known[ct.Name()] {
				missing = append(missing, ct.Name())
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			out[table] = missing
		}
	}
	return out, nil
}

// PrintColumnMismatchReport logs the output of ColumnMismatches.
func PrintColumnMismatchReport(db *gorm.DB) error {
	mismatches, err := ColumnMismatches(db)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(mismatches))
	total := 0
	for table, cols := range mismatches {
		tables = append(tables, table)
		total += len(cols)
	}
	sort.Strings(tables)

	for _, table := range tables {
		log.Warn().Str("table", table).Strs("columns", mismatches[table]).Msg("columns not mapped by model")
	}
	log.Info().Int("total", total).Msg("column mismatch report finished")
	return nil
}
