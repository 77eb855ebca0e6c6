// Command modelgen regenerates the gorm model for the build history table
// from a migrated Postgres schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	var dsn, out, table string
	flag.StringVar(&dsn, "dsn", os.Getenv("URBAN_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.StringVar(&table, "table", "build_batches", "table to generate a model for")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or URBAN_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:       out,
		ModelPkgPath:  "model",
		Mode:          gen.WithoutContext,
		FieldNullable: false,
	})
	g.UseDB(db)
	g.ApplyBasic(g.GenerateModelAs(table, "BuildBatch",
		gen.FieldType("builds", "[]byte"),
		gen.FieldType("step", "int32"),
	))
	g.Execute()

	fmt.Printf("generated %s model at %s\n", table, out)
}
