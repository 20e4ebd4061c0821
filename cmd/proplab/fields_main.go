package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/proplab/proplab/internal/fields"
)

// runFields prints the registered field definitions and the dynamic families.
func runFields(cmd *cobra.Command, args []string) error {
	registry := fields.NewStandardRegistry()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Label", "Type")
	for _, key := range registry.Keys() {
		def, ok := registry.Get(key)
		if !ok {
			continue
		}
		table.Append(def.Key(), def.Label(), string(def.Type()))
	}
	table.Render()

	fmt.Println("\nDynamic families (any suffix resolves against the game log):")
	fmt.Printf("  %s<name>   box-score stat by name (e.g. stat.points)\n", fields.StatPrefix)
	fmt.Printf("  %s<name>   posted prop line for the stat (e.g. line.points)\n", fields.LinePrefix)
	fmt.Printf("  %s<name>   stat minus line for the same name (e.g. diff.points)\n", fields.DiffPrefix)
	fmt.Printf("  %s<key>     enrichment context entry (e.g. ctx.home_game)\n", fields.CtxPrefix)
	return nil
}
