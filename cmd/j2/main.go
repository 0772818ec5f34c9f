package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	j2 "github.com/goliatone/go-j2"
	"github.com/goliatone/go-j2/pkg/render"
)

// version is set at build time with -ldflags.
var version = "dev"

func main() {
	cmd := newRootCommand(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "j2: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	var (
		filterFiles  []string
		testFiles    []string
		customize    string
		undefined    bool
		outputFile   string
		encodingName string
	)

	cmd := &cobra.Command{
		Use:           "j2 <template> <data>",
		Short:         "Render a Jinja-style template against a YAML or JSON data file",
		Long:          "j2 renders a template file against a structured data document and\nwrites the result to stdout or a file. Filters and tests can be loaded\nfrom Go source files; their exported functions run with full host\nprivileges.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return &j2.ArgumentError{Msg: "template file is required"}
			}
			if len(args) > 2 {
				return &j2.ArgumentError{Msg: fmt.Sprintf("unexpected argument %q", args[2])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := j2.Request{
				TemplatePath:   args[0],
				FilterFiles:    filterFiles,
				TestFiles:      testFiles,
				CustomizePath:  customize,
				AllowUndefined: undefined,
				OutputPath:     outputFile,
			}
			if len(args) > 1 {
				req.DataPath = args[1]
			}
			if encodingName != "" {
				enc, err := render.EncodingByName(encodingName)
				if err != nil {
					return &j2.ArgumentError{Msg: err.Error()}
				}
				req.Encoding = enc
			}
			return j2.Run(cmd.Context(), req, stdout)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &j2.ArgumentError{Msg: err.Error()}
	})

	cmd.Flags().StringArrayVar(&filterFiles, "filters", nil,
		"Go source files whose exported functions become template filters")
	cmd.Flags().StringArrayVar(&testFiles, "tests", nil,
		"Go source files whose exported functions become template tests")
	cmd.Flags().StringVar(&customize, "customize", "",
		"reserved behavior-customization hook (accepted, unused)")
	cmd.Flags().BoolVar(&undefined, "undefined", false,
		"allow undefined variables in templates instead of failing")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"write output to a file (UTF-8) instead of stdout")
	cmd.Flags().StringVar(&encodingName, "encoding", "",
		"IANA name of the stdout output encoding (default windows-1252)")

	return cmd
}

// exitCode maps argument failures to 1 and every other pipeline failure to 2.
func exitCode(err error) int {
	var argErr *j2.ArgumentError
	if errors.As(err, &argErr) {
		return 1
	}
	return 2
}
