package main

import (
	"flag"
	"fmt"
	"os"
)

// Config defines program configuration.
type Config struct {
	Input        string // Input image file.
	Output       string // Output file. Leave empty for stdout.
	SpriteHeight int    // Height of a single sprite frame in pixels.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.SpriteHeight = 8

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Output, "out", c.Output, "File path to write output to. Leave empty to use stdout.")
	flag.IntVar(&c.SpriteHeight, "height", c.SpriteHeight, "Height of a single sprite frame in pixels (1-15).")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if c.SpriteHeight < 1 || c.SpriteHeight > 15 {
		fmt.Fprintln(os.Stderr, "sprite height must be in range 1-15")
		os.Exit(1)
	}

	c.Input = flag.Arg(0)
	return &c
}
