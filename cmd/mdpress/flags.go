package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// serveFlags holds command-line overrides for the server.
type serveFlags struct {
	config    string
	addr      string
	outputDir string
	verbose   bool
	version   bool
}

// parseFlags parses command-line flags.
func parseFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("mdpress", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (overrides config)")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "artifact directory (overrides config)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return f, nil
}
