package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed annotations.sql
var annotationsSQL string

//go:embed matches.sql
var matchesSQL string

// Function lists for verification
var AnnotationsFunctions = []string{
	"init_annotations",
	"insert_annotation",
	"select_annotation",
	"delete_annotation",
}

var MatchesFunctions = []string{
	"init_matches",
	"insert_match",
	"select_matches_by_example",
	"delete_matches_by_example",
}

// Init initializes db extensions and shared trigger functions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadAnnotationsSql loads annotation cache SQL functions
func LoadAnnotationsSql(db *sql.DB, force bool) error {
	return loadSql(db, "annotations", annotationsSQL, AnnotationsFunctions, force)
}

// LoadMatchesSql loads match store SQL functions
func LoadMatchesSql(db *sql.DB, force bool) error {
	return loadSql(db, "matches", matchesSQL, MatchesFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadAnnotationsSql(db, force); err != nil {
		return err
	}

	if err := LoadMatchesSql(db, force); err != nil {
		return err
	}

	return nil
}

// loadSql executes a SQL file unless all of its functions exist already.
// With force the file is always executed.
func loadSql(db *sql.DB, name string, content string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(content)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
