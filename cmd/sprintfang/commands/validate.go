package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
)

// ErrDocumentInvalid is returned when the document fails validation.
var ErrDocumentInvalid = errors.New("document is not valid")

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	var colorize, nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a sprint metrics document",
		Long: `Validate a sprint metrics document against the dataset schema and
the cross-field rules the schema cannot express, such as every series
matching the length of its record's date axis.

Examples:
  sprintfang validate data.json
  sprintfang validate - < data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runValidate(cobraCmd.OutOrStdout(), args[0], colorize, nocolor)
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(out io.Writer, inputPath string, colorize, nocolor bool) error {
	if nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	raw, label, err := readInput(inputPath)
	if err != nil {
		return err
	}

	issues, err := dataset.SchemaIssues(raw)
	if err != nil {
		return fmt.Errorf("validate %s: %w", label, err)
	}

	if len(issues) > 0 {
		color.New(color.FgRed).Fprintf(out, "Document is not valid (%s)\n", label)
		fmt.Fprintf(out, "\nSchema violations:\n")

		for _, issue := range issues {
			color.New(color.FgRed).Fprintf(out, "  - %s: %s\n", issue.Field(), issue.Description())
		}

		return ErrDocumentInvalid
	}

	// The schema accepts shapes the dashboard cannot draw, so run the
	// full parse too.
	ds, parseErr := dataset.Parse(raw)
	if parseErr != nil {
		color.New(color.FgRed).Fprintf(out, "Document is not valid (%s)\n", label)
		color.New(color.FgRed).Fprintf(out, "  - %v\n", parseErr)

		return ErrDocumentInvalid
	}

	color.New(color.FgGreen).Fprintf(out, "Document is valid (%s)\n", label)
	color.New(color.FgCyan).Fprintf(out, "  Records: %d\n", ds.Len())

	return nil
}

func readInput(inputPath string) ([]byte, string, error) {
	if inputPath == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return raw, "stdin", nil
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}

	return raw, inputPath, nil
}
