// Command tricenter evaluates a scene script and prints the center of every
// triangle of every placed object as JSON.
//
//	tricenter [-config tricenter.toml] [-target name] scene.tri
//	tricenter [-config tricenter.toml] -print-config
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/tricenter/pkg/config"
)

type options struct {
	configPath  string
	target      string
	indent      bool
	printConfig bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "TOML settings file")
	flag.StringVar(&opts.target, "target", "", "only print world-space centers for this object")
	flag.BoolVar(&opts.indent, "indent", true, "indent JSON output")
	flag.BoolVar(&opts.printConfig, "print-config", false, "print the effective settings as TOML and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] script\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 && !opts.printConfig {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(opts, flag.Arg(0), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run evaluates the script at path and writes the JSON result to w. With
// printConfig set it writes the effective settings as TOML instead.
func run(opts options, path string, w io.Writer) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.printConfig {
		data, err := cfg.Encode()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	app, err := NewAppWithConfig(cfg)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	enc := json.NewEncoder(w)
	if opts.indent {
		enc.SetIndent("", "  ")
	}

	if opts.target != "" {
		centers, err := app.TriangleCenters(string(source), opts.target)
		if err != nil {
			return err
		}
		return enc.Encode(struct {
			Target string    `json:"target"`
			World  []float32 `json:"world"`
		}{opts.target, centers})
	}

	result := app.Evaluate(string(source))
	if err := enc.Encode(result); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d error(s), first: %v", len(result.Errors), result.Errors[0])
	}
	return nil
}
