package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// schemaDocs describes the documents podchunk writes, keyed by the name
// accepted on the command line.
var schemaDocs = map[string]struct {
	value       any
	version     string
	title       string
	description string
}{
	"chunks": {
		value:       &domain.ChunkSet{},
		version:     domain.ChunkSchemaVersion,
		title:       "podchunk chunks",
		description: "Every chunk cut from a run, in global order (chunks.json).",
	},
	"filtered": {
		value:       &domain.ChunkSet{},
		version:     domain.FilteredSchemaVersion,
		title:       "podchunk filtered chunks",
		description: "Chunks that passed the quality filter (chunks_filtered.json).",
	},
	"stats": {
		value:       &[]domain.EpisodeStats{},
		title:       "podchunk episode stats",
		description: "Word and line counts per raw transcript (episode_stats.json).",
	},
}

var schemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema [chunks|filtered|stats]",
	Short: "Print the JSON Schema of an output document",
	Long: `Print the JSON Schema describing one of the documents podchunk writes.
Defaults to chunks. Use --out to write the schema to a file instead.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: schemaNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "chunks"
		if len(args) == 1 {
			name = args[0]
		}

		data, err := outputSchema(name)
		if err != nil {
			return fmt.Errorf("schema failed: %w", err)
		}

		if schemaOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(schemaOut, data, 0o644); err != nil {
			return fmt.Errorf("schema failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s schema to %s\n", name, schemaOut)
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaOut, "out", "", "write the schema to this file")
	rootCmd.AddCommand(schemaCmd)
}

// outputSchema reflects the named document into an indented JSON Schema.
func outputSchema(name string) ([]byte, error) {
	doc, ok := schemaDocs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown document %q (want one of %s)",
			domain.ErrInvalidInput, name, strings.Join(schemaNames(), ", "))
	}

	// Only named structs can be expanded in place; slices stay a $ref.
	r := &jsonschema.Reflector{
		ExpandedStruct: reflect.TypeOf(doc.value).Elem().Kind() == reflect.Struct,
	}
	schema := r.Reflect(doc.value)
	schema.Title = doc.title
	schema.Description = doc.description

	if doc.version != "" && schema.Properties != nil {
		if prop, ok := schema.Properties.Get("schema_version"); ok {
			prop.Const = doc.version
		}
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

func schemaNames() []string {
	names := make([]string, 0, len(schemaDocs))
	for name := range schemaDocs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
