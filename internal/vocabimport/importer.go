// Package vocabimport seeds the concept store from spreadsheet or CSV word
// lists.
package vocabimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/hanmadi/internal/concept"
)

// Kind selects which concept table rows are imported into.
type Kind string

const (
	KindVocabulary Kind = "vocab"
	KindGrammar    Kind = "grammar"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindVocabulary, KindGrammar:
		return k, nil
	case "":
		return KindVocabulary, nil
	default:
		return "", fmt.Errorf("unknown import kind %q (want vocab or grammar)", s)
	}
}

// Config describes one import run.
type Config struct {
	FilePath  string
	SheetName string // xlsx only
	Kind      Kind
	StartRow  int // 1-based; rows before it are headers
}

// DefaultConfig returns the default import configuration for path.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:  path,
		SheetName: "Sheet1",
		Kind:      KindVocabulary,
		StartRow:  2,
	}
}

// Result holds the outcome of an import.
type Result struct {
	Processed int
	Created   int
	Existing  int
	Skipped   int
	Errors    []string
}

// Importer writes rows into a concept store.
type Importer struct {
	store concept.Store
}

// New creates an importer backed by store.
func New(store concept.Store) *Importer {
	return &Importer{store: store}
}

// Import reads cfg.FilePath and creates every listed concept that does not
// exist yet. Existing concepts are left untouched. Row-level problems are
// collected in Result.Errors; store failures abort the import.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{Errors: []string{}}
	for i, row := range rows {
		line := i + 1
		if line < cfg.StartRow {
			continue
		}
		res.Processed++
		if err := im.importRow(ctx, cfg.Kind, row, res); err != nil {
			var su *concept.ErrStoreUnavailable
			if errors.As(err, &su) {
				return res, err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", line, err))
		}
	}
	return res, nil
}

func (im *Importer) importRow(ctx context.Context, kind Kind, row []string, res *Result) error {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		res.Skipped++
		return nil
	}
	name := strings.TrimSpace(row[0])

	score := 0.0
	if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
		s, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			res.Skipped++
			return fmt.Errorf("invalid score %q", row[1])
		}
		if s < concept.MinScore || s > concept.MaxScore {
			res.Skipped++
			return fmt.Errorf("score %v out of range [0, 1]", s)
		}
		score = s
	}

	var existed bool
	var err error
	switch kind {
	case KindGrammar:
		_, existed, err = im.store.GetGrammar(ctx, name)
		if err == nil && !existed {
			_, err = im.store.UpsertGrammar(ctx, name, concept.GrammarDefaults{MasteryScore: score})
		}
	default:
		_, existed, err = im.store.GetVocabulary(ctx, name)
		if err == nil && !existed {
			_, err = im.store.UpsertVocabulary(ctx, name, concept.VocabularyDefaults{MasteryScore: score})
		}
	}
	if err != nil {
		return err
	}

	if existed {
		res.Existing++
	} else {
		res.Created++
	}
	return nil
}

func readRows(cfg Config) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".csv") {
		return readCSV(cfg.FilePath)
	}
	return readExcel(cfg.FilePath, cfg.SheetName)
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
