// Command pds inspects NASA Planetary Data System products: it prints
// label trees, extracts images, renders HTML previews and checks product
// sizes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/tsawler/pds"
	"github.com/tsawler/pds/extract"
)

func main() {
	app := kingpin.New("pds", "Read labels and images from PDS products.")

	verbose := app.Flag("verbose", "Log debug traces to stderr.").Short('v').Bool()
	ignoreErrors := app.Flag("ignore-errors", "Continue with the next file after a failure.").Bool()
	ignoreUnsupported := app.Flag("ignore-unsupported", "Skip products without a supported image instead of failing.").Bool()
	ignoreChecksum := app.Flag("ignore-checksum", "Skip images failing MD5_CHECKSUM instead of failing.").Bool()
	charset := app.Flag("charset", "Character set of the label header.").PlaceHolder("NAME").String()
	strictKeys := app.Flag("strict-keys", "Treat duplicate keys as errors.").Bool()

	labelsCmd := app.Command("labels", "Print the label tree of each product.")
	labelsFiles := labelsCmd.Arg("file", "Products or directories to scan.").Required().Strings()

	imageCmd := app.Command("image", "Extract the image of each product.")
	imageFiles := imageCmd.Arg("file", "Products or directories to scan.").Required().Strings()
	imageOut := imageCmd.Flag("out", "Output directory.").Short('o').Default(".").String()
	imageFormat := imageCmd.Flag("format", "Output image format.").Short('f').Default("png").Enum("png", "tiff", "bmp")
	imageWorkers := imageCmd.Flag("workers", "Files extracted in parallel, 0 for no limit.").Short('w').Default("4").Int()

	viewCmd := app.Command("view", "Render a product as an HTML page.")
	viewFile := viewCmd.Arg("file", "Product to render.").Required().String()
	viewOut := viewCmd.Flag("out", "Output HTML file, defaults to the product name with .html.").Short('o').String()

	validateCmd := app.Command("validate", "Check that each product is FILE_RECORDS * RECORD_BYTES long.")
	validateFiles := validateCmd.Arg("file", "Products or directories to scan.").Required().Strings()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	p := &program{
		stdout:       color.Output,
		stderr:       color.Error,
		ignoreErrors: *ignoreErrors,
		key:          color.New(color.FgCyan),
		warn:         color.New(color.FgYellow),
		fail:         color.New(color.FgRed, color.Bold),
		ok:           color.New(color.FgGreen),
		title:        color.New(color.Bold),
	}
	if *verbose {
		p.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	p.opts = extractorOptions(p.logger, *charset, *ignoreUnsupported, *ignoreChecksum, *strictKeys)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch command {
	case labelsCmd.FullCommand():
		err = p.labels(ctx, *labelsFiles)
	case imageCmd.FullCommand():
		var f extract.Format
		f, err = extract.ParseFormat(*imageFormat)
		if err == nil {
			err = p.images(ctx, *imageFiles, *imageOut, f, *imageWorkers)
		}
	case viewCmd.FullCommand():
		err = p.view(*viewFile, *viewOut)
	case validateCmd.FullCommand():
		err = p.validate(ctx, *validateFiles)
	}
	app.FatalIfError(err, "%s", command)
}

// extractorOptions translates the global flags into facade options.
func extractorOptions(logger *slog.Logger, charset string, ignoreUnsupported, ignoreChecksum, strictKeys bool) []pds.Option {
	var opts []pds.Option
	if logger != nil {
		opts = append(opts, func(e *pds.Extractor) *pds.Extractor { return e.WithLogger(logger) })
	}
	if charset != "" {
		opts = append(opts, func(e *pds.Extractor) *pds.Extractor { return e.Charset(charset) })
	}
	if ignoreUnsupported {
		opts = append(opts, (*pds.Extractor).IgnoreUnsupported)
	}
	if ignoreChecksum {
		opts = append(opts, (*pds.Extractor).IgnoreChecksum)
	}
	if strictKeys {
		opts = append(opts, (*pds.Extractor).RejectDuplicateKeys)
	}
	return opts
}
