package keyblock

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
	"github.com/arloliu/memcodec/internal/options"
	"github.com/arloliu/memcodec/shape"
)

// DefaultCompression is the payload compression used when none is configured.
const DefaultCompression = format.CompressionS2

type config struct {
	compression format.CompressionType
	schema      *shape.Shape
	logger      *slog.Logger
}

// Option configures a Builder or the opening of a Block.
type Option = options.Option[*config]

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		compression: DefaultCompression,
		logger:      slog.Default(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression selects the payload compression for a Builder.
// It has no effect on Open, which reads the compression from the header.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !compression.IsValid() {
			return fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompression, uint8(compression))
		}
		c.compression = compression

		return nil
	})
}

// WithSchema attaches a shape to the block.
//
// For a Builder the shape is embedded in the block and AddValue only accepts
// values of that shape. For Open it supplies the shape of a block built
// without one; a block that embeds a different shape fails with
// errs.ErrShapeMismatch.
func WithSchema(s *shape.Shape) Option {
	return options.New(func(c *config) error {
		if err := s.Validate(); err != nil {
			return err
		}
		c.schema = s

		return nil
	})
}

// WithLogger sets the logger for build and open events. A nil logger selects
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	})
}
