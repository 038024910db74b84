package source_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/source"
)

const csvBody = "STATUS,PREV,FILIAL CUSTOS\nCONCLUIDO,05/03/2026,Castro\n"

var csvDecoder = source.Decoder{Format: source.FormatCSV}

func TestDecoder_unsupportedFormat(t *testing.T) {
	_, err := source.Decoder{Format: "ods"}.Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, source.ErrUnsupportedFormat)
}

func TestDecoder_xlsx(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"STATUS", "R$ PROP"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"RECEBIDO", 1500}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := source.Decoder{Format: source.FormatXLSX, Sheet: "Sheet1"}.Decode(buf)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, 1500.0, ds.Rows[0]["R$ PROP"])
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BASE.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0o644))

	src := &source.FileSource{Path: path, Decoder: csvDecoder}
	ds, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, ds.Origin)
	assert.Len(t, ds.Rows, 1)
	assert.Equal(t, "file:"+path, src.Describe())

	missing := &source.FileSource{Path: filepath.Join(t.TempDir(), "nope.csv"), Decoder: csvDecoder}
	_, err = missing.Fetch(context.Background())
	require.Error(t, err)
}

func TestHTTPSource_noStoreAndRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, csvBody)
	}))
	defer srv.Close()

	src := &source.HTTPSource{
		URL:     srv.URL,
		Decoder: csvDecoder,
		Retries: 2,
		Backoff: time.Millisecond,
	}
	ds, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, srv.URL, ds.Origin)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "CONCLUIDO", ds.Rows[0]["STATUS"])
}

func TestHTTPSource_clientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := &source.HTTPSource{URL: srv.URL, Decoder: csvDecoder, Retries: 3, Backoff: time.Millisecond}
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPSource_retriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := &source.HTTPSource{URL: srv.URL, Decoder: csvDecoder, Retries: 1, Backoff: time.Millisecond}
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPSource_oversizedBodyFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	limit := int64(len(csvBody) - 1)
	src := &source.HTTPSource{URL: srv.URL, Decoder: csvDecoder, Retries: 2, Backoff: time.Millisecond, MaxBytes: limit}
	_, err := src.Fetch(context.Background())
	require.ErrorIs(t, err, source.ErrBodyTooLarge)
	assert.Equal(t, int32(1), calls.Load())

	// Exactly at the limit still loads.
	src.MaxBytes = int64(len(csvBody))
	ds, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Rows)
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{body: csvBody}
	src := &source.S3Source{Client: client, Bucket: "freight", Key: "exports/BASE.csv", Decoder: csvDecoder}

	ds, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "freight", aws.ToString(client.input.Bucket))
	assert.Equal(t, "exports/BASE.csv", aws.ToString(client.input.Key))
	assert.Equal(t, "s3://freight/exports/BASE.csv", ds.Origin)
	assert.Len(t, ds.Rows, 1)

	failing := &source.S3Source{Client: &fakeS3{err: errors.New("access denied")}, Bucket: "b", Key: "k", Decoder: csvDecoder}
	_, err = failing.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNew_fromConfig(t *testing.T) {
	cfg := &config.AppConfig{
		Source: config.SourceConfig{Kind: "http", Format: "csv", URL: "https://example.com/base.csv"},
		HTTP:   config.HTTPSettings{Timeout: time.Second, Retries: 2},
	}
	src, err := source.New(context.Background(), cfg, "FRETE MÁQUINAS", nil)
	require.NoError(t, err)

	httpSrc, ok := src.(*source.HTTPSource)
	require.True(t, ok)
	assert.Equal(t, 2, httpSrc.Retries)
	assert.Equal(t, "FRETE MÁQUINAS", httpSrc.Decoder.Sheet)

	cfg.Source = config.SourceConfig{Kind: "file", Format: "xlsx", Path: "BASE.xlsx", Sheet: "OUTRA"}
	src, err = source.New(context.Background(), cfg, "FRETE MÁQUINAS", nil)
	require.NoError(t, err)
	assert.Equal(t, "OUTRA", src.(*source.FileSource).Decoder.Sheet)

	cfg.Source.Format = "json"
	_, err = source.New(context.Background(), cfg, "", nil)
	require.ErrorIs(t, err, source.ErrUnsupportedFormat)
}
