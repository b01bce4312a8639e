package invoice

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"gorm.io/datatypes"
)

// NewInvoiceRecord builds the entity stored for a simple invoice. The
// normalized record is kept as a snapshot next to the columns.
func NewInvoiceRecord(owner uuid.UUID, s *Simple) (*entity.Invoice, error) {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode invoice snapshot: %w", err)
	}

	return &entity.Invoice{
		UserID:        owner,
		InvoiceNumber: s.InvoiceNumber,
		SenderName:    s.YourName,
		SenderABN:     s.ABN,
		ClientName:    s.ClientName,
		ClientEmail:   s.ClientEmail,
		Description:   s.Description,
		Quantity:      s.Quantity,
		Rate:          s.Rate,
		IncludeGST:    s.IncludeGST,
		Total:         s.Total,
		IssueDate:     s.Date,
		Status:        enum.InvoiceStatusUnpaid,
		Data:          datatypes.JSON(snapshot),
	}, nil
}

// NewAdvancedInvoiceRecord builds the entity and items stored for an
// advanced invoice.
func NewAdvancedInvoiceRecord(owner uuid.UUID, a *Advanced) *entity.AdvancedInvoice {
	rec := &entity.AdvancedInvoice{
		UserID:        owner,
		InvoiceNumber: a.InvoiceNumber,
		IssueDate:     a.Date,
		IncludeGST:    a.IncludeGST,
		Subtotal:      a.Subtotal,
		GSTAmount:     a.GSTAmount,
		Total:         a.Total,
		Status:        enum.InvoiceStatusUnpaid,
		SenderMode:    a.SenderMode,
		ClientName:    a.ClientName,
		ClientEmail:   a.ClientEmail,
		Items:         make([]entity.AdvancedInvoiceItem, 0, len(a.Items)),
	}

	if a.SenderMode == enum.SenderModeCompany {
		rec.CompanyID = a.CompanyID
	} else {
		rec.SenderName = a.Sender.Name
		rec.SenderABN = a.Sender.ABN
	}

	for i, item := range a.Items {
		rec.Items = append(rec.Items, entity.AdvancedInvoiceItem{
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Total:       item.Total,
		})
	}
	return rec
}

// FromInvoiceRecord rebuilds a stored simple invoice for re-rendering. The
// result is flagged for review so it is never stored again.
func FromInvoiceRecord(inv *entity.Invoice) *Normalized {
	s := &Simple{}
	if len(inv.Data) == 0 || json.Unmarshal(inv.Data, s) != nil {
		s = &Simple{
			InvoiceNumber: inv.InvoiceNumber,
			YourName:      inv.SenderName,
			ABN:           inv.SenderABN,
			ClientName:    inv.ClientName,
			ClientEmail:   inv.ClientEmail,
			Description:   inv.Description,
			Quantity:      inv.Quantity,
			Rate:          inv.Rate,
			IncludeGST:    inv.IncludeGST,
			Date:          inv.IssueDate,
			Total:         inv.Total,
		}
		if s.Date != "" {
			s.FormattedDate = FormatDisplayDate(s.Date)
		}
	}
	s.Review = true
	return &Normalized{Shape: enum.InvoiceShapeSimple, Simple: s}
}

// FromAdvancedInvoiceRecord rebuilds a stored advanced invoice for
// re-rendering. Items and Company must be preloaded.
func FromAdvancedInvoiceRecord(inv *entity.AdvancedInvoice) *Normalized {
	a := &Advanced{
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.IssueDate,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		IncludeGST:    inv.IncludeGST,
		SenderMode:    inv.SenderMode,
		CompanyID:     inv.CompanyID,
		Sender:        inv.Sender(),
		Items:         make([]Item, 0, len(inv.Items)),
		Subtotal:      inv.Subtotal,
		GSTAmount:     inv.GSTAmount,
		Total:         inv.Total,
		Review:        true,
	}
	if a.Date != "" {
		a.FormattedDate = FormatDisplayDate(a.Date)
	}
	for _, item := range inv.Items {
		a.Items = append(a.Items, Item{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Total:       item.Total,
		})
	}
	return &Normalized{Shape: enum.InvoiceShapeAdvanced, Advanced: a}
}
