package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hexaflex/chip8/asm"
)

func main() {
	config := parseArgs()

	fd, err := os.Open(config.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rom, err := asm.Assemble(fd)
	fd.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.Input, err)
		os.Exit(1)
	}

	w, close := makeWriter(config)
	defer close()

	if _, err = w.Write(rom); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// makeWriter creates an output writer and a cleanup function for it.
func makeWriter(c *Config) (io.Writer, func()) {
	if c.Output == "" {
		return os.Stdout, func() {}
	}

	dir, _ := filepath.Split(c.Output)
	if dir != "" {
		if err := os.MkdirAll(dir, 0744); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fd, err := os.Create(c.Output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return fd, func() { fd.Close() }
}
