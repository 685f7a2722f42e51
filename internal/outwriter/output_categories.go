package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// PrintCategoryInfo outputs the known category names, dispatching based on the output format configured.
func PrintCategoryInfo(info schema.CategoryInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, info)
		}, "Wrote JSON category info")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "kind"}, func(cw *csv.Writer) error {
				return writeCategoryRows(cw, info)
			})
		}, "Wrote CSV category info")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCategoryText(w, info)
		}, "Wrote category info")
	}
}

// writeCategoryRows emits one CSV row per known category name.
func writeCategoryRows(cw *csv.Writer, info schema.CategoryInfo) error {
	groups := []struct {
		kind  schema.CategoryKind
		names []string
	}{
		{schema.TagCategory, info.Tags},
		{schema.ComponentCategory, info.Components},
		{schema.QueueCategory, info.Queues},
	}
	for _, g := range groups {
		for _, name := range g.names {
			if err := cw.Write([]string{name, string(g.kind)}); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCategoryText renders the category names as grouped lists.
func writeCategoryText(w io.Writer, info schema.CategoryInfo) error {
	sections := []struct {
		title string
		names []string
	}{
		{"Tags", info.Tags},
		{"Components", info.Components},
		{"Queues", info.Queues},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s (%d):\n", s.title, len(s.names)); err != nil {
			return err
		}
		for _, name := range s.names {
			if _, err := fmt.Fprintf(w, "  %s\n", name); err != nil {
				return err
			}
		}
	}
	return nil
}
