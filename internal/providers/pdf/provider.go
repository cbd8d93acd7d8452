// Package pdf renders payslip and invoice documents.
package pdf

import (
	"bytes"
	"context"
	"io"
)

type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
	GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error)
}

// NoOpProvider satisfies Provider for tests that do not inspect output. It
// always hands back an empty reader, never a nil one.
type NoOpProvider struct{}

func (p *NoOpProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}

func (p *NoOpProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}
