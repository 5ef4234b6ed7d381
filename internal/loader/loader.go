// Package loader reads the TV dataset from a local CSV file or an HTTP(S) URL.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"tvcharts/internal/logger"
	"tvcharts/internal/models"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a remote fetch when no timeout is configured
const DefaultTimeout = 30 * time.Second

// Required CSV header columns
const (
	ColBrand             = "brand"
	ColModel             = "model"
	ColScreenSize        = "screenSize"
	ColScreenTech        = "screenTech"
	ColEnergyConsumption = "energyConsumption"
	ColStar              = "star"
)

var requiredColumns = []string{ColBrand, ColModel, ColScreenSize, ColScreenTech, ColEnergyConsumption, ColStar}

// LoadError reports a dataset that could not be fetched or parsed
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader fetches datasets. A single Loader may be reused.
type Loader struct {
	client *resty.Client
	log    *logger.Logger
}

// New creates a loader whose remote fetches give up after timeout.
// Remote fetches are attempted once.
func New(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "text/csv, text/plain, */*")

	return &Loader{
		client: client,
		log:    logger.WithComponent("loader"),
	}
}

// Load reads the dataset at source with the default timeout
func Load(ctx context.Context, source string) (*models.Dataset, error) {
	return New(DefaultTimeout).Load(ctx, source)
}

// Load reads and parses the dataset at source. Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context, source string) (*models.Dataset, error) {
	start := time.Now()

	raw, err := l.read(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	records, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	l.log.Info("Dataset loaded", logger.Fields{
		"source":   source,
		"records":  len(records),
		"duration": time.Since(start).String(),
	})
	return models.NewDataset(source, records), nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if isRemote(source) {
		return l.fetch(ctx, source)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(source)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	l.log.Debug("Fetching dataset", logger.Fields{"url": url})

	resp, err := l.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status())
	}
	return resp.Body(), nil
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Parse decodes CSV with a header row into records. Columns may appear in
// any order and extra columns are ignored.
func Parse(r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []models.Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if blank(row) {
			continue
		}

		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		records = append(records, models.Record{
			Brand:             cell(ColBrand),
			Model:             cell(ColModel),
			ScreenSize:        Number(cell(ColScreenSize)),
			ScreenTech:        models.ScreenTech(strings.TrimSpace(cell(ColScreenTech))),
			EnergyConsumption: Number(cell(ColEnergyConsumption)),
			Star:              Number(cell(ColStar)),
		})
	}
	return records, nil
}

// Number coerces a text cell the way a numeric CSV column is read:
// surrounding space is ignored, an empty cell is 0 and anything that is not a
// number is NaN.
func Number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	if strings.HasPrefix(lower, "0x") {
		if v, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return float64(v)
		}
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
