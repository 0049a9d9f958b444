package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/tsawler/pds"
	"github.com/tsawler/pds/extract"
	"github.com/tsawler/pds/format"
	"github.com/tsawler/pds/label"
	"github.com/tsawler/pds/view"
)

type program struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger

	ignoreErrors bool
	opts         []pds.Option

	key   *color.Color
	warn  *color.Color
	fail  *color.Color
	ok    *color.Color
	title *color.Color
}

func (p *program) open(path string) *pds.Extractor {
	ext := pds.Open(path)
	for _, opt := range p.opts {
		ext = opt(ext)
	}
	return ext
}

// failed reports a per-file error. It returns nil when the run should go on.
func (p *program) failed(path string, err error) error {
	p.fail.Fprintf(p.stderr, "%s: %v\n", path, err)
	if p.ignoreErrors {
		return nil
	}
	return fmt.Errorf("%s: %w", path, err)
}

func (p *program) warnings(path string, warnings []label.Warning) {
	for _, w := range warnings {
		p.warn.Fprintf(p.stderr, "%s: warning: %s\n", path, w)
	}
}

func (p *program) labels(ctx context.Context, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	printer := &label.Printer{Key: func(k string) string { return p.key.Sprint(k) }}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		labels, warnings, err := p.open(path).Labels()
		if err != nil {
			if err := p.failed(path, err); err != nil {
				return err
			}
			continue
		}
		p.warnings(path, warnings)

		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(p.stdout)
			}
			p.title.Fprintf(p.stdout, "==> %s <==\n", path)
		}
		if err := printer.Fprint(p.stdout, labels); err != nil {
			return err
		}
	}
	return nil
}

func (p *program) images(ctx context.Context, args []string, outDir string, f extract.Format, workers int) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	return pds.ExtractFiles(ctx, files, workers, func(path string, res *extract.Result, err error) error {
		if err != nil {
			return p.failed(path, err)
		}
		p.warnings(path, res.Warnings)
		if res.Image == nil {
			p.warn.Fprintf(p.stderr, "%s: no supported image\n", path)
			return nil
		}

		out := outputPath(outDir, path, f.Extension())
		if err := writeImage(out, res.Image, f); err != nil {
			return p.failed(path, err)
		}
		fmt.Fprintf(p.stdout, "%s -> %s (%dx%d)\n", path, out, res.Image.Width, res.Image.Height)
		return nil
	}, p.opts...)
}

func writeImage(path string, img *extract.Image, f extract.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := img.Encode(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (p *program) view(path, out string) error {
	if out == "" {
		out = outputPath(filepath.Dir(path), path, ".html")
	}

	// The page shows the labels even when no image can be extracted.
	res, err := p.open(path).IgnoreUnsupported().Image()
	var (
		labels label.Node
		img    *extract.Image
	)
	switch {
	case err == nil:
		p.warnings(path, res.Warnings)
		labels, img = res.Labels, res.Image
	case errors.Is(err, label.ErrDecode), errors.Is(err, label.ErrStructure):
		return err
	default:
		p.warn.Fprintf(p.stderr, "%s: image omitted: %v\n", path, err)
		var warnings []label.Warning
		labels, warnings, err = p.open(path).Labels()
		if err != nil {
			return err
		}
		p.warnings(path, warnings)
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	opts := view.DefaultOptions()
	opts.Title = filepath.Base(path)
	if err := view.Render(w, labels, img, opts); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	fmt.Fprintf(p.stdout, "%s -> %s\n", path, out)
	return nil
}

func (p *program) validate(ctx context.Context, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	var bad int
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.open(path).Validate(); err != nil {
			bad++
			p.fail.Fprintf(p.stdout, "FAIL")
			fmt.Fprintf(p.stdout, " %s: %v\n", path, err)
			continue
		}
		p.ok.Fprintf(p.stdout, "ok")
		fmt.Fprintf(p.stdout, "   %s\n", path)
	}
	if bad > 0 && !p.ignoreErrors {
		return fmt.Errorf("%d of %d products failed validation", bad, len(files))
	}
	return nil
}

// collectFiles expands directories into the PDS products they contain.
// Files named explicitly are kept whatever their content.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			kind, err := format.DetectFile(path)
			if err != nil {
				return err
			}
			if kind != format.Unknown {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// outputPath places the base name of src, with its extension replaced by
// ext, in dir.
func outputPath(dir, src, ext string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+ext)
}
