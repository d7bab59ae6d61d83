package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/civar/event"
	"github.com/ardnew/civar/stdvars"
)

// Catalog prints the standard-context variable catalog: each
// variable's name, description, payload source paths, and the
// triggers for which it is forced null.
type Catalog struct {
	Format string `default:"text" enum:"text,yaml" help:"Output format." short:"f"`
}

//nolint:gochecknoglobals
var catalogTriggers = []event.Trigger{
	event.TriggerPush,
	event.TriggerPullRequest,
	event.TriggerIssues,
	event.TriggerIssueComment,
	event.TriggerWorkflowDispatch,
	event.TriggerSchedule,
	event.TriggerOther,
}

// Run prints the catalog to stdout.
func (c *Catalog) Run(ctx context.Context) error {
	var w io.Writer = os.Stdout
	if ktx := kongContextFrom(ctx); ktx != nil {
		w = ktx.Stdout
	}

	if c.Format == "yaml" {
		return c.writeYAML(w)
	}

	return c.writeText(w)
}

func (c *Catalog) writeText(w io.Writer) error {
	for _, def := range stdvars.Catalog() {
		if _, err := fmt.Fprintf(w, "%s\n    %s\n", def.Name, def.Doc); err != nil {
			return err
		}

		for _, path := range def.Paths {
			if _, err := fmt.Fprintf(w, "    <- %s\n", path); err != nil {
				return err
			}
		}

		if nulls := nullTriggers(def); len(nulls) > 0 {
			if _, err := fmt.Fprintf(w, "    null for: %v\n", nulls); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Catalog) writeYAML(w io.Writer) error {
	doc := make(yaml.MapSlice, 0, len(stdvars.Catalog()))

	for _, def := range stdvars.Catalog() {
		entry := yaml.MapSlice{
			{Key: "doc", Value: def.Doc},
		}

		if len(def.Paths) > 0 {
			entry = append(entry, yaml.MapItem{Key: "paths", Value: def.Paths})
		}

		if nulls := nullTriggers(def); len(nulls) > 0 {
			entry = append(entry, yaml.MapItem{Key: "null-for", Value: nulls})
		}

		doc = append(doc, yaml.MapItem{Key: def.Name, Value: entry})
	}

	text, err := yaml.Marshal(doc)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(text)

	return err
}

// nullTriggers lists the trigger names for which def is forced null.
func nullTriggers(def stdvars.Def) []string {
	if def.Null == nil {
		return nil
	}

	var names []string

	for _, t := range catalogTriggers {
		if def.Null(t) {
			names = append(names, t.String())
		}
	}

	return names
}
