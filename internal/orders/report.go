package orders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eskimo_admin/internal/session"

	"go.uber.org/zap"
)

const ScopeAll = "all"

var ErrInvalidRange = errors.New("invalid report date range")

type ReportSink interface {
	Save(name string, data []byte) error
}

// DirSink writes every report into Dir.
type DirSink struct {
	Dir string
}

func (s DirSink) Save(name string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReportStores resolves a report scope to store keys.
func ReportStores(scope string) ([]string, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" || strings.EqualFold(scope, ScopeAll) {
		return append([]string(nil), session.StoreKeys...), nil
	}
	store := NormalizeStore(scope)
	if !session.IsStoreKey(store) {
		return nil, fmt.Errorf("%w: %q", session.ErrUnknownStore, scope)
	}
	return []string{store}, nil
}

func ReportFileName(store, from, to string) string {
	name := "relatorio-" + store
	if from != "" {
		name += "-de-" + from
	}
	if to != "" {
		name += "-ate-" + to
	}
	return name + ".pdf"
}

func validateRange(from, to string) error {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.Parse(time.DateOnly, from); err != nil {
			return fmt.Errorf("%w: from %q", ErrInvalidRange, from)
		}
	}
	if to != "" {
		if end, err = time.Parse(time.DateOnly, to); err != nil {
			return fmt.Errorf("%w: to %q", ErrInvalidRange, to)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: to before from", ErrInvalidRange)
	}
	return nil
}

// DownloadReports fetches the store reports one after another and hands each
// to sink. A failing store is reported and skipped. It returns the names of
// the saved files.
func (vm *ViewModel) DownloadReports(ctx context.Context, scope, from, to string, sink ReportSink) ([]string, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	stores, err := ReportStores(scope)
	if err != nil {
		return nil, err
	}

	var saved []string
	var errs []error
	for _, store := range stores {
		if err := ctx.Err(); err != nil {
			return saved, err
		}

		report, err := vm.backend.StoreReport(ctx, store, from, to)
		if err == nil {
			name := ReportFileName(store, from, to)
			if err = sink.Save(name, report.Data); err == nil {
				saved = append(saved, name)
				vm.logger.Info("report saved", zap.String("store", store), zap.String("file", name), zap.Int("bytes", len(report.Data)))
				continue
			}
		}

		vm.logger.Warn("report failed", zap.String("store", store), zap.Error(err))
		vm.notify(LevelError, fmt.Sprintf("Falha ao gerar o relatório da loja %s.", store), nil)
		errs = append(errs, fmt.Errorf("report %s: %w", store, err))
	}
	return saved, errors.Join(errs...)
}
