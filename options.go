package pds

import (
	"log/slog"

	"golang.org/x/text/encoding"

	"github.com/tsawler/pds/extract"
	"github.com/tsawler/pds/label"
)

// ExtractOptions holds configuration for reading a product.
type ExtractOptions struct {
	logger   *slog.Logger
	encoding encoding.Encoding

	// Failure policy
	ignoreUnsupported bool
	ignoreChecksum    bool
	rejectDuplicates  bool
}

// defaultOptions returns options that raise every failure and log nothing.
func defaultOptions() ExtractOptions {
	return ExtractOptions{}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// labelOptions translates the options for label.NewParser.
func (o ExtractOptions) labelOptions() []label.Option {
	opts := []label.Option{label.WithLogger(o.logger)}
	if o.encoding != nil {
		opts = append(opts, label.WithEncoding(o.encoding))
	}
	if o.rejectDuplicates {
		opts = append(opts, label.RejectDuplicateKeys())
	}
	return opts
}

// extractConfig translates the options for extract.NewImageExtractor.
func (o ExtractOptions) extractConfig() extract.Config {
	cfg := extract.DefaultConfig()
	cfg.RaiseNotSupported = !o.ignoreUnsupported
	cfg.RaiseChecksum = !o.ignoreChecksum
	cfg.Logger = o.logger
	cfg.Parser = label.NewParser(o.labelOptions()...)
	return cfg
}
