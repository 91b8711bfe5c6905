package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stachengine/mustache"
	"github.com/stachengine/mustache/jsonimport"
)

var rootCmd = &cobra.Command{
	Use: "mustache [--layout template] [--partials-dir dir] [--override file] template [data]",
	Example: `  $ mustache template.mustache data.json
  $ cat data.yml | mustache template.mustache
  $ mustache --layout wrapper.mustache template.mustache data.yml
  $ mustache --override over.json template.mustache data.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args)
	},
	SilenceUsage: true,
}

var (
	layoutFile   string
	overrideFile string
	partialsDir  string
)

func main() {
	rootCmd.Flags().StringVar(&layoutFile, "layout", "", "location of layout template")
	rootCmd.Flags().StringVar(&overrideFile, "override", "", "location of a data file whose top-level keys override the main data file's")
	rootCmd.Flags().StringVar(&partialsDir, "partials-dir", "", "directory to search for {{>partial}} templates")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	templatePath := args[0]

	var data mustache.Data
	var err error
	if len(args) == 2 {
		data, err = decodeDataFile(args[1])
	} else {
		data, err = decodeData(os.Stdin, ".yml")
	}
	if err != nil {
		return err
	}

	if overrideFile != "" {
		override, err := decodeDataFile(overrideFile)
		if err != nil {
			return err
		}
		data = mergeOverride(data, override)
	}

	var partials mustache.PartialProvider
	if partialsDir != "" {
		partials = &mustache.FileProvider{Paths: []string{partialsDir}}
	}

	var output string
	if layoutFile != "" {
		layoutTmpl, err := mustache.ParseFilePartials(layoutFile, partials)
		if err != nil {
			return err
		}
		tmpl, err := mustache.ParseFilePartials(templatePath, partials)
		if err != nil {
			return err
		}
		output, err = tmpl.RenderInLayout(layoutTmpl, data)
		if err != nil {
			return err
		}
	} else {
		tmpl, err := mustache.ParseFilePartials(templatePath, partials)
		if err != nil {
			return err
		}
		output, err = tmpl.Render(data)
		if err != nil {
			return err
		}
	}

	fmt.Print(output)
	return nil
}

// decodeDataFile decodes a data file into a Data value, choosing JSON or
// YAML decoding by the file's extension: the library's own data-file
// contract (spec §6.2) is JSON, while the CLI additionally accepts YAML
// for hand-written fixtures, exactly as it always has.
func decodeDataFile(path string) (mustache.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return mustache.Data{}, err
	}
	defer f.Close()
	return decodeData(f, filepath.Ext(path))
}

func decodeData(r io.Reader, ext string) (mustache.Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return mustache.Data{}, err
	}
	if strings.EqualFold(ext, ".json") {
		return jsonimport.Decode(b)
	}
	return decodeYAML(b)
}
