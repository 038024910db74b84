// =============================================================================
// Freight Tracker - Data Sources
// =============================================================================
//
// A Source is an explicit handle to where the request sheet lives. Every
// source is configured with both its location and its format; there is no
// discovery and no fallback from one location or format to another.
//
// SOURCES:
//   - FileSource:  local path
//   - HTTPSource:  GET with no-store caching, per-attempt timeout, retries
//   - S3Source:    object in an S3 (or S3-compatible) bucket
//
// FORMATS:
//   - csv:  internal/csvparser (delimiter / encoding from config)
//   - xlsx: internal/xlsxparser (typed cells, named sheet)
//
// =============================================================================

package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/csvparser"
	"github.com/ginjaninja78/freight-tracker/internal/types"
	"github.com/ginjaninja78/freight-tracker/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for any format other than csv or xlsx.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Source fetches one raw dataset.
type Source interface {
	// Fetch retrieves and decodes the dataset. It must honour ctx.
	Fetch(ctx context.Context) (*types.Dataset, error)

	// Describe names the source for logs, e.g. "file:BASE.xlsx".
	Describe() string
}

// =============================================================================
// DECODING
// =============================================================================

// Decoder turns a byte stream into a dataset according to an explicit format.
type Decoder struct {
	// Format is FormatCSV or FormatXLSX.
	Format string

	// CSV holds delimiter, encoding and header settings for csv.
	CSV config.CSVSettings

	// Sheet selects the workbook sheet for xlsx (empty = first sheet).
	Sheet string
}

// Decode parses r.
//
// RETURNS:
//   - The dataset (Origin left empty for the caller to fill).
//   - ErrUnsupportedFormat (wrapped) for an unknown format, or the parser's error.
func (d Decoder) Decode(r io.Reader) (*types.Dataset, error) {
	switch d.Format {
	case FormatCSV:
		return csvparser.ParseReader(r, d.CSV)
	case FormatXLSX:
		return xlsxparser.ReadRows(r, xlsxparser.Options{Sheet: d.Sheet})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, d.Format)
	}
}

// =============================================================================
// CONSTRUCTION FROM CONFIG
// =============================================================================

// New builds the source described by cfg.
//
// PARAMETERS:
//   - ctx: Used to load AWS credentials for the s3 kind.
//   - cfg: Validated application config.
//   - defaultSheet: Sheet used when cfg.Source.Sheet is empty (from the
//     column mapping).
//   - logger: May be nil.
//
// RETURNS:
//   - The source, or an error for an unknown kind or format.
func New(ctx context.Context, cfg *config.AppConfig, defaultSheet string, logger *zap.Logger) (Source, error) {
	sheet := cfg.Source.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	dec := Decoder{Format: cfg.Source.Format, CSV: cfg.CSV, Sheet: sheet}
	if dec.Format != FormatCSV && dec.Format != FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, dec.Format)
	}

	switch cfg.Source.Kind {
	case "file":
		return &FileSource{Path: cfg.Source.Path, Decoder: dec}, nil
	case "http":
		return &HTTPSource{
			URL:     cfg.Source.URL,
			Decoder: dec,
			Timeout: cfg.HTTP.Timeout,
			Retries: cfg.HTTP.Retries,
			Logger:  logger,
		}, nil
	case "s3":
		client, err := NewS3Client(ctx, cfg.Source.Region, cfg.Source.Endpoint)
		if err != nil {
			return nil, err
		}
		return &S3Source{
			Client:  client,
			Bucket:  cfg.Source.Bucket,
			Key:     cfg.Source.Key,
			Decoder: dec,
		}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
