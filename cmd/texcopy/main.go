// Command texcopy copies image files through the texcopy conversion engine.
//
// The source file plays the role of an RGBA8 framebuffer. Results are
// written as the sampled view of the destination texture, so a luminance
// copy saves as gray and an alpha copy as transparent black.
package main

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/gogpu/texcopy"
	"github.com/gogpu/texcopy/gpu"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/tiff"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		if ec, ok := err.(cli.ExitCoder); ok {
			code = ec.ExitCode()
		}
		os.Exit(code)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()

	app.Name = "texcopy"
	app.Usage = "copy framebuffer pixels into texture formats"
	app.Version = texcopy.Version
	app.Writer = stdout
	app.ErrWriter = stderr
	// main maps ExitCoder errors to process exit codes.
	app.ExitErrHandler = func(*cli.Context, error) {}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			EnvVars: []string{"TEXCOPY_VERBOSE"},
			Usage:   "log copy diagnostics to stderr",
		},
		&cli.StringFlag{
			Name:    "rounding",
			EnvVars: []string{"TEXCOPY_ROUNDING"},
			Value:   texcopy.RoundNearest.String(),
			Usage:   "quantization rounding: nearest, half-even or toward-zero",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"TEXCOPY_WORKERS"},
			Usage:   "conversion workers (0 uses all CPUs)",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "copy",
			Usage:     "Create a texture from a region of SRC",
			ArgsUsage: "SRC OUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "format",
					Aliases:  []string{"f"},
					Required: true,
					Usage:    "destination format (see 'texcopy formats')",
				},
				newRegionFlag(),
				newStrictFlag(),
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					return cli.Exit("copy needs SRC and OUT", 2)
				}
				e, err := newEngine(c)
				if err != nil {
					return cli.Exit(err, 2)
				}
				defer e.Close()

				format, err := texcopy.ParseFormat(c.String("format"))
				if err != nil {
					return cli.Exit(err, 2)
				}
				fb, src, err := loadFramebuffer(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}
				region, err := regionArg(c.String("region"), src)
				if err != nil {
					return cli.Exit(err, 2)
				}

				tex, err := e.FullCopy(fb, region, format)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if err := save(c.Args().Get(1), tex); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "subcopy",
			Usage:     "Overwrite part of DST with a region of SRC",
			ArgsUsage: "DST SRC OUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "dst-format",
					Value: "rgba8",
					Usage: "format DST is converted to before the copy",
				},
				&cli.StringFlag{
					Name:  "offset",
					Value: "0,0",
					Usage: "destination position as x,y",
				},
				newRegionFlag(),
				newStrictFlag(),
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 3 {
					return cli.Exit("subcopy needs DST, SRC and OUT", 2)
				}
				e, err := newEngine(c)
				if err != nil {
					return cli.Exit(err, 2)
				}
				defer e.Close()

				format, err := texcopy.ParseFormat(c.String("dst-format"))
				if err != nil {
					return cli.Exit(err, 2)
				}
				offset, err := parseOffset(c.String("offset"))
				if err != nil {
					return cli.Exit(err, 2)
				}
				dstFB, dstSrc, err := loadFramebuffer(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}
				dst, err := e.FullCopy(dstFB, dstSrc.Bounds(), format)
				if err != nil {
					return cli.Exit(err, 1)
				}
				fb, src, err := loadFramebuffer(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				region, err := regionArg(c.String("region"), src)
				if err != nil {
					return cli.Exit(err, 2)
				}

				if err := e.SubCopy(dst, offset, fb, region); err != nil {
					return cli.Exit(err, 1)
				}
				if err := save(c.Args().Get(2), dst); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:  "formats",
			Usage: "List texture formats and their GPU mapping",
			Action: func(c *cli.Context) error {
				for _, f := range texcopy.Formats() {
					m, err := gpu.TextureFormatFor(f)
					if err != nil {
						return cli.Exit(err, 1)
					}
					fmt.Fprintf(c.App.Writer, "%-9s %3d bytes  %-12v %s\n",
						texcopy.FormatName(f), f.BytesPerPixel(), m.Texture, m.Swizzle)
				}
				return nil
			},
		},
	}

	return app
}

func newEngine(c *cli.Context) (*texcopy.Engine, error) {
	rounding, err := parseRounding(c.String("rounding"))
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	return texcopy.NewEngine(
		texcopy.WithLogger(logger),
		texcopy.WithRounding(rounding),
		texcopy.WithWorkers(c.Int("workers")),
		texcopy.WithStrictComponents(c.Bool("strict")),
	), nil
}

func parseRounding(s string) (texcopy.Rounding, error) {
	for _, r := range []texcopy.Rounding{texcopy.RoundNearest, texcopy.RoundHalfEven, texcopy.RoundTowardZero} {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rounding %q", s)
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma separated integers", s, n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseRegion(s string) (texcopy.Region, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return texcopy.Region{}, err
	}
	return texcopy.Rect(v[0], v[1], v[2], v[3]), nil
}

func parseOffset(s string) (texcopy.Offset, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return texcopy.Offset{}, err
	}
	return texcopy.Offset{X: v[0], Y: v[1]}, nil
}

func newRegionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "region",
		Usage: "source rectangle as x,y,width,height (default: whole image)",
	}
}

func newStrictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "strict",
		EnvVars: []string{"TEXCOPY_STRICT"},
		Usage:   "require every destination component to exist in the source",
	}
}

func regionArg(s string, src *texcopy.Image) (texcopy.Region, error) {
	if s == "" {
		return src.Bounds(), nil
	}
	return parseRegion(s)
}

// loadFramebuffer decodes an image file into an RGBA8 framebuffer and
// returns it with its color attachment.
func loadFramebuffer(path string) (*texcopy.Framebuffer, *texcopy.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, nil, err
	}
	rgba, err := texcopy.FromImage(img, texcopy.RGBA8)
	if err != nil {
		return nil, nil, err
	}
	fb := texcopy.NewFramebuffer()
	if err := fb.Attach(0, rgba); err != nil {
		return nil, nil, err
	}
	return fb, rgba, nil
}

func encoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("unsupported output type %q", filepath.Ext(path))
}

func save(path string, tex *texcopy.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}
	return imgio.Save(path, texcopy.ToImage(tex), enc)
}
