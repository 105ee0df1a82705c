package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	params "github.com/goliatone/go-params"
	"github.com/goliatone/go-params/schema/jsonschema"
)

type listEntry struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	Value   any    `json:"value,omitempty"`
	Default any    `json:"default,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List parameters with their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			entries := make([]listEntry, 0, s.registry.Len())
			for _, desc := range s.registry.Describe() {
				entry := listEntry{Key: desc.Key, Type: desc.Type, Label: desc.Label(), Default: desc.Default}
				p, _ := s.registry.Lookup(desc.Key)
				if value, err := p.Current(s.store); err != nil {
					entry.Error = err.Error()
				} else {
					entry.Value = value
				}
				entries = append(entries, entry)
			}
			if a.v.GetString("output") == "json" {
				return a.writeJSON(entries)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tVALUE\tLABEL")
			for _, entry := range entries {
				value := fmt.Sprint(entry.Value)
				if entry.Error != "" {
					value = "<invalid>"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Key, entry.Type, value, entry.Label)
			}
			return tw.Flush()
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the validated value of a parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			p, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			value, err := p.Current(s.store)
			if err != nil {
				return err
			}
			if a.v.GetString("output") == "json" {
				return a.writeJSON(map[string]any{args[0]: value})
			}
			_, err = fmt.Fprintln(a.out, value)
			return err
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Validate VALUE and write it to the settings file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			p, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			if err := p.Assign(s.store, args[1]); err != nil {
				return err
			}
			return s.save()
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset KEY",
		Short: "Remove a parameter from the settings file, restoring its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			p, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			p.Clear(s.store)
			return s.save()
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every parameter in the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			for _, key := range s.store.Keys() {
				if _, ok := s.registry.Lookup(key); !ok {
					a.logger.Warn("unknown key in settings", "key", key)
				}
			}
			if err := s.registry.Check(s.store); err != nil {
				return fmt.Errorf("settings %q are invalid:\n%w", s.path, err)
			}
			_, err = fmt.Fprintf(a.out, "%d parameters ok\n", s.registry.Len())
			return err
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print a schema for the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			var generator params.SchemaGenerator
			switch params.SchemaFormat(format) {
			case params.SchemaFormatJSONSchema:
				generator = jsonschema.NewGenerator(jsonschema.WithDescription("Settings for " + a.v.GetString("catalog")))
			case params.SchemaFormatDescriptors:
				generator = params.DefaultSchemaGenerator()
			default:
				return fmt.Errorf("unknown schema format %q", format)
			}
			doc, err := s.registry.Schema(generator)
			if err != nil {
				return err
			}
			return a.writeJSON(doc.Document)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(params.SchemaFormatJSONSchema), "schema format (jsonschema|descriptors)")
	return cmd
}

func (a *app) writeJSON(v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(payload))
	return err
}
