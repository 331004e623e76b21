package main

import (
	"database/sql"
	"flag"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mbeutel/llamachat/tools"
)

func main() {
	path := flag.String("db", "knowledge.db", "path of the knowledge base to create")
	flag.Parse()

	db, err := sql.Open("sqlite3", *path)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS topics (
            term TEXT PRIMARY KEY,
            summary TEXT
        );
    `)
	if err != nil {
		panic(err)
	}

	if err := tools.SeedTopics(db); err != nil {
		panic(err)
	}

	fmt.Printf("Knowledge base seeded at %s\n", *path)
}
