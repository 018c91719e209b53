// Command natsuzora-render is a minimal sample driver: it parses a
// template file and renders it against a JSON data file. The CLI
// surface itself carries no language semantics; it exists only so the
// engine has a runnable entry point alongside its library package.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/natsuzora/natsuzora"
)

func main() {
	var (
		dataPath    = flag.String("data", "", "path to a JSON data file")
		includeRoot = flag.String("include-root", "", "directory partials are resolved under (optional)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <template-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *dataPath, *includeRoot); err != nil {
		fmt.Fprintln(os.Stderr, "natsuzora-render:", err)
		os.Exit(1)
	}
}

func run(templatePath, dataPath, includeRoot string) error {
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return err
	}

	tmpl, err := natsuzora.ParseString(templatePath, string(src))
	if err != nil {
		return err
	}

	var data interface{}
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return fmt.Errorf("decoding %s: %w", dataPath, err)
		}
	} else {
		data = map[string]interface{}{}
	}

	var loader *natsuzora.Loader
	if includeRoot != "" {
		loader, err = natsuzora.NewLoader(includeRoot)
		if err != nil {
			return err
		}
	}

	out, err := tmpl.RenderWithLoader(data, loader)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
