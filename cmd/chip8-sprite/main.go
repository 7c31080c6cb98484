package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// SpriteWidth is fixed by the draw instruction, which always
// blits eight pixels per sprite row.
const SpriteWidth = 8

func main() {
	config := parseArgs()
	img := loadImage(config)

	out, close := makeWriter(config)
	defer close()

	translate(out, img, config.SpriteHeight)
}

// translate reads sprite data from the given image and writes it to the
// output as assembly data directives. The image is cut into frames of
// 8 x height pixels, left to right, top to bottom. Any pixel brighter
// than black counts as set.
func translate(out io.Writer, img image.Image, height int) {
	r := img.Bounds()
	w := r.Dx() / SpriteWidth
	h := r.Dy() / height

	for y := 0; y < h; y++ {
		sy := r.Min.Y + y*height

		for x := 0; x < w; x++ {
			sx := r.Min.X + x*SpriteWidth

			fmt.Fprintf(out, ":sprite_%d\n", y*w+x)

			for py := sy; py < sy+height; py++ {
				var row byte

				for px := sx; px < sx+SpriteWidth; px++ {
					row <<= 1
					cr, _, _, _ := img.At(px, py).RGBA()
					if cr != 0 {
						row |= 1
					}
				}

				fmt.Fprintf(out, "  db $%02x\n", row)
			}

			fmt.Fprintln(out, "")
		}
	}
}

// loadImage loads an image from the input file.
func loadImage(c *Config) image.Image {
	fd, err := os.Open(c.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	r := img.Bounds()
	if r.Dx() < SpriteWidth || r.Dy() < c.SpriteHeight {
		fmt.Fprintf(os.Stderr, "source image is too small; expected at least %d x %d pixels\n", SpriteWidth, c.SpriteHeight)
		os.Exit(1)
	}

	return img
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
