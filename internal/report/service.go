package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/document"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
)

// Format selects an export renderer.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatCSV  Format = "csv"
)

func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatDocx, FormatCSV:
		return true
	}

	return false
}

// ContentType returns the MIME type for the rendered file.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Service builds quarterly reports from the ledger and records every export in
// the document audit trail.
type Service struct {
	transactions *transaction.Service
	circuits     *circuit.Service
	documents    *document.Service
	builder      *Builder
	logger       *slog.Logger
}

func NewService(transactions *transaction.Service, circuits *circuit.Service, documents *document.Service, builder *Builder, logger *slog.Logger) *Service {
	return &Service{
		transactions: transactions,
		circuits:     circuits,
		documents:    documents,
		builder:      builder,
		logger:       logger,
	}
}

// BuildQuarterly computes the statistics for one quarter. The full transaction
// history is loaded so prior-quarter comparisons are available.
func (s *Service) BuildQuarterly(ctx context.Context, q period.Quarter, year int) (*ReportData, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quarter %d", q)
	}

	txs, err := s.transactions.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	circuits, err := s.circuits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing circuits: %w", err)
	}

	return s.builder.Build(txs, circuits, q, year), nil
}

// Export renders the quarter in the requested format and records the export.
func (s *Service) Export(ctx context.Context, w io.Writer, format Format, q period.Quarter, year int) (*ReportData, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	data, err := s.BuildQuarterly(ctx, q, year)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		err = RenderPDF(w, data)
	case FormatDocx:
		err = RenderDocx(w, data)
	case FormatCSV:
		err = RenderCSV(w, data)
	}

	if err != nil {
		return nil, fmt.Errorf("rendering %s report: %w", format, err)
	}

	if err := s.record(ctx, format, data); err != nil {
		// The export itself succeeded; a failed audit entry is not fatal.
		s.logger.Warn("failed to record export", "format", format, "error", err)
	}

	return data, nil
}

func (s *Service) record(ctx context.Context, format Format, data *ReportData) error {
	docType := document.TypeQuarterlyReport
	if format == FormatCSV {
		docType = document.TypeCSVExport
	}

	snapshot, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling report snapshot: %w", err)
	}

	q := data.Quarter

	_, err = s.documents.Record(ctx, document.RecordParams{
		Type:    docType,
		Title:   fmt.Sprintf("%s %d Report (%s)", q, data.Year, format.Extension()),
		Quarter: &q,
		Year:    data.Year,
		Data:    string(snapshot),
	})

	return err
}
