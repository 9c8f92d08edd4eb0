package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/degree-advisor/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against one of the embedded schemas",
	Long:  "Validates a JSON file against an embedded schema (" + strings.Join(schemas.Names(), ", ") + ") and reports every failing field.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema name, e.g. catalog.schema.json (required)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	err := schemas.ValidateJSON(validateSchema, validateJSON)
	if err == nil {
		_, _ = fmt.Fprintf(os.Stdout, "Validation passed: %s matches %s\n", validateJSON, validateSchema)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(os.Stderr, "Validation failed:\n")
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(os.Stderr, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s does not match %s", validateJSON, validateSchema)
	}
	return err
}
