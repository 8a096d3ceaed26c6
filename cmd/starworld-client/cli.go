package main

import "flag"

// Options holds CLI options for the client.
type Options struct {
	ConfigPath string
	Host       string
	Port       uint
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
	fs := flag.NewFlagSet("starworld-client", flag.ExitOnError)
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
	fs.StringVar(&opts.Host, "host", "", "Domain server host (overrides config)")
	fs.UintVar(&opts.Port, "port", 0, "Domain server UDP port (overrides config)")
	_ = fs.Parse(args)
	return opts
}
