package main

import (
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/template"
)

// ValidFormats lists the supported AST output formats.
var ValidFormats = []string{"json", "yaml"}

func parseCmd() *cobra.Command {
	var (
		format   string
		compound bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a template and print its AST",
		Long: `Parse a template and print its AST as JSON or YAML.

The template is read from the given file, or from standard input when the
file is omitted or "-". Syntax errors are reported with their position.`,
		Example: `  quill parse counter.tpl
  quill parse --format yaml --compound counter.tpl
  echo '<p>{{ n }}</p>' | quill parse`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, format) {
				return errors.New("Q601").
					WithDetailf("format %q", format).
					WithSuggestion("Use --format json or --format yaml")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readTemplate(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			root, err := template.ParseFile(name, src)
			if err != nil {
				return err
			}
			if compound {
				root = template.Compound(root)
			}
			return writeAST(cmd.OutOrStdout(), format, root)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&compound, "compound", false, "Merge adjacent text and interpolations")

	return cmd
}

// readTemplate returns the template name and source for args.
func readTemplate(stdin io.Reader, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", err
		}
		return "<stdin>", string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

func writeAST(w io.Writer, format string, root *template.Root) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	}
}
