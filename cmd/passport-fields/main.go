package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/pdf/inspect"
	"github.com/vredrick/cofa-passport/internal/pdf/template"
)

// Result is the outcome of checking one template against the field registry.
type Result struct {
	Template string              `json:"template"`
	Registry string              `json:"registry"`
	Coverage inspect.Coverage    `json:"coverage"`
	OK       bool                `json:"ok"`
	Fields   []inspect.FieldInfo `json:"fields,omitempty"`
}

func main() {
	flags := pflag.NewFlagSet("passport-fields", pflag.ExitOnError)
	outputFormat := flags.String("format", "text", "Output format: text, json")
	listFields := flags.Bool("fields", false, "Also list every field of the template")
	flags.Usage = func() { printUsage(os.Stderr, flags) }
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: template path required\n\n")
		printUsage(os.Stderr, flags)
		os.Exit(2)
	}

	res, err := check(flags.Arg(0), fieldmap.FSM(), *listFields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(os.Stdout, res, *outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
	if !res.OK {
		os.Exit(1)
	}
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "passport-fields - check the field registry against a template PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  passport-fields [OPTIONS] <template.pdf>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exits with status 1 when a registry identifier is missing from the template")
	fmt.Fprintln(w, "or refers to a field of the wrong type.")
}

func check(path string, reg *fieldmap.Registry, withFields bool) (*Result, error) {
	b, err := template.NewFileSource(path).Fetch(context.Background())
	if err != nil {
		return nil, err
	}

	cov, err := inspect.Check(reg, b)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Template: path,
		Registry: reg.Name(),
		Coverage: cov,
		OK:       cov.OK(),
	}
	if withFields {
		if res.Fields, err = inspect.Fields(b); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func outputResults(w io.Writer, res *Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "text":
		outputText(w, res)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func outputText(w io.Writer, res *Result) {
	fmt.Fprintf(w, "Template: %s\n", res.Template)
	fmt.Fprintf(w, "Registry: %s\n", res.Registry)

	section := func(title string, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s (%d):\n", title, len(ids))
		for _, id := range ids {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	section("Missing from template", res.Coverage.Missing)
	section("Wrong field type", res.Coverage.KindMismatch)
	section("Not in registry", res.Coverage.Unmapped)

	if len(res.Fields) > 0 {
		fmt.Fprintf(w, "\nFields (%d):\n", len(res.Fields))
		for _, f := range res.Fields {
			ro := ""
			if f.ReadOnly {
				ro = " [read-only]"
			}
			fmt.Fprintf(w, "  %-24s %-4s %q%s\n", f.Name, f.Type, f.Value, ro)
		}
	}

	if res.OK {
		fmt.Fprintln(w, "\nOK: every registry field is present")
	} else {
		fmt.Fprintln(w, "\nFAIL: registry and template disagree")
	}
}
