package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Invoices"

var exportHeader = []any{"Invoice #", "Date", "Client", "Type", "Items", "Total (AUD)", "Status"}

// ExportService writes invoice history as a spreadsheet
type ExportService struct {
	history *HistoryService
	logger  *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(history *HistoryService, logger *zap.Logger) *ExportService {
	return &ExportService{history: history, logger: logger}
}

// HistoryWorkbook returns the user's history as an xlsx workbook
func (s *ExportService) HistoryWorkbook(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	summaries, err := s.history.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := summaryRow(row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "C", 20); err != nil {
		s.logger.Warn("failed to size export columns", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("history exported",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(summaries)),
	)
	return buf.Bytes(), nil
}

func summaryRow(s invoice.Summary) []any {
	return []any{
		s.DisplayNumber,
		s.Date,
		s.ClientName,
		s.Shape.String(),
		s.ItemCount,
		s.Total.InexactFloat64(),
		s.Status.String(),
	}
}
