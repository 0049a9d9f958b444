package extract

import (
	"log/slog"

	"github.com/tsawler/pds/label"
)

// Config controls an ImageExtractor.
type Config struct {
	// RaiseNotSupported fails the extraction with a *NotSupportedError
	// when the product holds no supported image. When false the reason is
	// recorded in Result.Suppressed and no image is returned.
	RaiseNotSupported bool

	// RaiseChecksum fails the extraction with a *ChecksumError when the
	// samples do not match MD5_CHECKSUM. When false the mismatch is
	// recorded in Result.Suppressed and no image is returned.
	RaiseChecksum bool

	// Logger receives debug traces and suppressed failures. Nil disables
	// logging.
	Logger *slog.Logger

	// Parser reads the label header. Nil uses a Parser logging to Logger.
	Parser *label.Parser
}

// DefaultConfig returns a Config that raises every failure.
func DefaultConfig() Config {
	return Config{
		RaiseNotSupported: true,
		RaiseChecksum:     true,
	}
}
