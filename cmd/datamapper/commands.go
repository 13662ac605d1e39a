package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/igorpocta/data-mapper-sub001/coerce"
	"github.com/igorpocta/data-mapper-sub001/filter"
	"github.com/igorpocta/data-mapper-sub001/hydrate"
	"github.com/igorpocta/data-mapper-sub001/source/gojson"
	stdjson "github.com/igorpocta/data-mapper-sub001/source/json"
	"github.com/igorpocta/data-mapper-sub001/source/yaml"
)

type codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
	Name() string
}

type ioFlags struct {
	from       string
	to         string
	jsonDriver string
	indent     bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &ioFlags{}
	root := &cobra.Command{
		Use:           "datamapper",
		Short:         "Transform JSON and YAML documents with datamapper filters and hydrators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.from, "from", "auto", "input format: json, yaml or auto")
	pf.StringVar(&flags.to, "to", "json", "output format: json or yaml")
	pf.StringVar(&flags.jsonDriver, "json-driver", "go-json", "JSON codec: go-json or std")
	pf.BoolVar(&flags.indent, "indent", false, "pretty-print JSON output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log codec and pipeline details to stderr")

	root.AddCommand(newFilterCmd(flags), newCastCmd(flags), newHydrateCmd(flags), newConvertCmd(flags))
	return root
}

func newFilterCmd(flags *ioFlags) *cobra.Command {
	var chain string
	cmd := &cobra.Command{
		Use:   "filter --chain DSL [file]",
		Short: "Apply a filter chain such as \"each(trim)|unique|sort\" to a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := filter.Parse(chain)
			if err != nil {
				return err
			}
			doc, err := readDoc(cmd, flags, args)
			if err != nil {
				return err
			}
			logf(cmd, flags, "chain: %s", c)
			return writeDoc(cmd, flags, c.Apply(doc))
		},
	}
	cmd.Flags().StringVar(&chain, "chain", "", "filter chain")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}

func newCastCmd(flags *ioFlags) *cobra.Command {
	var (
		typ       string
		recursive bool
	)
	cmd := &cobra.Command{
		Use:   "cast --type int|float|bool|string [file]",
		Short: "Best-effort cast of every element of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := coerce.ParseScalar(typ)
			if !ok {
				return fmt.Errorf("unknown type %q", typ)
			}
			doc, err := readDoc(cmd, flags, args)
			if err != nil {
				return err
			}
			return writeDoc(cmd, flags, filter.Chain{filter.Cast(s, recursive)}.Apply(doc))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "string", "target scalar type")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "cast nested arrays too")
	return cmd
}

func newHydrateCmd(flags *ioFlags) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "hydrate --ref REF [file]",
		Short: "Evaluate a hydration reference (expr:, cel:, js:, path:) against a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := hydrate.Compile(ref, nil)
			if err != nil {
				return err
			}
			doc, err := readDoc(cmd, flags, args)
			if err != nil {
				return err
			}
			out, err := fn(doc)
			if err != nil {
				return err
			}
			return writeDoc(cmd, flags, out)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "hydration reference")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}

func newConvertCmd(flags *ioFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [file]",
		Short: "Re-encode a document, e.g. --from yaml --to json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDoc(cmd, flags, args)
			if err != nil {
				return err
			}
			// sorted keys, so conversions are deterministic
			return writeDoc(cmd, flags, filter.Normalize(doc))
		},
	}
}

func readDoc(cmd *cobra.Command, flags *ioFlags, args []string) (any, error) {
	var (
		data []byte
		err  error
		name = "stdin"
	)
	if len(args) == 1 && args[0] != "-" {
		name = args[0]
		data, err = os.ReadFile(name)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, err
	}
	format := flags.from
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			format = "yaml"
		case ".json":
			format = "json"
		}
	}
	jc, err := jsonCodec(flags.jsonDriver, "")
	if err != nil {
		return nil, err
	}
	var c codec
	switch format {
	case "json":
		c = jc
	case "yaml":
		c = yaml.Driver()
	case "auto":
		// YAML is a superset of JSON; try the stricter codec first
		if v, err := jc.Unmarshal(data); err == nil {
			logf(cmd, flags, "read %s as json", name)
			return v, nil
		}
		c = yaml.Driver()
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	v, err := c.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	logf(cmd, flags, "read %s with %s", name, c.Name())
	return v, nil
}

func writeDoc(cmd *cobra.Command, flags *ioFlags, v any) error {
	var c codec
	switch flags.to {
	case "json":
		indent := ""
		if flags.indent {
			indent = "  "
		}
		j, err := jsonCodec(flags.jsonDriver, indent)
		if err != nil {
			return err
		}
		c = j
	case "yaml":
		c = yaml.Driver()
	default:
		return fmt.Errorf("unknown output format %q", flags.to)
	}
	out, err := c.Marshal(v)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if flags.to == "json" {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func jsonCodec(driver, indent string) (codec, error) {
	switch driver {
	case "go-json", "":
		return gojson.Codec{Indent: indent}, nil
	case "std":
		return stdjson.Codec{Indent: indent}, nil
	}
	return nil, fmt.Errorf("unknown json driver %q", driver)
}

func logf(cmd *cobra.Command, flags *ioFlags, format string, args ...any) {
	if !flags.verbose {
		return
	}
	log.New(cmd.ErrOrStderr(), "datamapper: ", log.LstdFlags).Printf(format, args...)
}
