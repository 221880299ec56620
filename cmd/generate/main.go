package main

import (
	"log"

	"github.com/rxtech-lab/argo-crossover/internal/config"
)

// outputDir is where the schema and the sample config are written, relative to the working directory.
const outputDir = "./config"

func main() {
	schemaPath, samplePath, err := config.WriteSchemaFiles(outputDir)
	if err != nil {
		log.Fatalf("Failed to generate config files: %v", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
	log.Printf("Sample config available at %s", samplePath)
}
