// Package cli wires the fschema command line: inspecting registered
// preprocessing schemas and validating model configs.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	internal "github.com/ZanzyTHEbar/featureschema/fschema"
	"github.com/ZanzyTHEbar/featureschema/fschema/config"
	"github.com/ZanzyTHEbar/featureschema/fschema/preprocessing"
	"github.com/ZanzyTHEbar/featureschema/fschema/registry"
	"github.com/ZanzyTHEbar/featureschema/fschema/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// App holds what every command needs. It is built once per process.
type App struct {
	Registry *registry.Registry
	Loader   *config.Loader
	Logger   zerolog.Logger
}

// NewApp builds the registry with every known schema.
func NewApp(logger zerolog.Logger) (*App, error) {
	reg := registry.New(logger)
	if err := preprocessing.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register preprocessing schemas: %w", err)
	}
	return &App{
		Registry: reg,
		Loader:   config.NewLoader(reg, logger),
		Logger:   logger,
	}, nil
}

// NewRootCommand returns the fschema command tree.
func NewRootCommand() *cobra.Command {
	var (
		logLevel string
		app      *App
	)

	rootCmd := &cobra.Command{
		Use:           internal.DefaultAppName,
		Short:         "Inspect feature preprocessing schemas and validate model configs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger := internal.GetLogger().Level(level)
			app, err = NewApp(logger)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	getApp := func() *App { return app }
	rootCmd.AddCommand(
		newKeysCmd(getApp),
		newDescribeCmd(getApp),
		newDefaultsCmd(getApp),
		newJSONSchemaCmd(getApp),
		newValidateCmd(getApp),
	)
	return rootCmd
}

func newKeysCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List registered feature-type keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range app().Registry.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newDescribeCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <key>",
		Short: "Show the options of a preprocessing schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app().Registry.Lookup(args[0])
			if err != nil {
				return err
			}
			writeFieldTable(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newDefaultsCmd(app func() *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "defaults <key>",
		Short: "Print the default options of a preprocessing schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app().Registry.Lookup(args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, userDefaults(s))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	return cmd
}

func newJSONSchemaCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema <key>",
		Short: "Print the JSON Schema of a preprocessing schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app().Registry.Lookup(args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), "json", s.JSONSchema())
		},
	}
}

// userDefaults drops internally computed fields; they are not options.
func userDefaults(s *schema.Schema) map[string]any {
	out := map[string]any{}
	for _, f := range s.Fields() {
		if !f.Internal {
			out[f.Name] = f.Default
		}
	}
	return out
}

func writeFieldTable(w io.Writer, s *schema.Schema) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Option", "Type", "Default", "Description"})
	table.SetAutoWrapText(true)
	table.SetRowLine(false)
	for _, f := range s.Fields() {
		typ := string(f.Kind)
		if f.Kind == schema.StringOptions {
			typ = "one of " + strings.Join(f.Options, "|")
		}
		if f.AllowNone {
			typ += " (nullable)"
		}
		desc := f.Description
		if f.Internal {
			desc = "[computed] " + desc
		}
		table.Append([]string{f.Name, typ, fmt.Sprintf("%v", f.Default), desc})
	}
	table.Render()
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}
