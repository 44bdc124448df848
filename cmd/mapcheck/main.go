// mapcheck is a standalone debug utility for the mapping heuristics: it
// reads a local CSV file and prints the suggested header-to-field mapping
// without touching the network. The field catalog is the built-in set of
// test case fields, which is enough to exercise the scorer.
package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/internal/ingest"
	"github.com/dshills/azdo-mcp/internal/mapping"
)

// builtinFields mirrors the fixed test case fields of the remote catalog.
var builtinFields = []azdo.FieldDefinition{
	{ReferenceName: azdo.FieldID, DisplayName: "ID"},
	{ReferenceName: azdo.FieldTitle, DisplayName: "Title"},
	{ReferenceName: azdo.FieldSteps, DisplayName: "Steps"},
	{ReferenceName: azdo.FieldPriority, DisplayName: "Priority"},
	{ReferenceName: azdo.FieldAreaPath, DisplayName: "Area Path"},
	{ReferenceName: azdo.FieldIterationPath, DisplayName: "Iteration Path"},
	{ReferenceName: azdo.FieldDescription, DisplayName: "Description"},
	{ReferenceName: azdo.FieldTags, DisplayName: "Tags"},
	{ReferenceName: azdo.FieldAutomationStatus, DisplayName: "Automation status"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.csv>\n", os.Args[0])
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	table, warnings, err := ingest.Parse(encoded, os.Args[1])
	if err != nil {
		log.Fatalf("Failed to parse file: %v", err)
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	suggestion := mapping.Suggest(table.Headers, builtinFields)

	out, err := json.MarshalIndent(suggestion, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode suggestion: %v", err)
	}

	fmt.Printf("Headers: %d, rows: %d\n", len(table.Headers), len(table.Rows))
	fmt.Println(string(out))
}
