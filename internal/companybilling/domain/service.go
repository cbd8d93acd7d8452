package domain

import (
	"context"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/pkg/db/pagination"
)

type AssignPlanRequest struct {
	BillingPlanID snowflake.ID `json:"billing_plan_id,string"`
	BillingCycle  BillingCycle `json:"billing_cycle"`
}

type GenerateInvoiceRequest struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

type ListInvoicesFilter struct {
	Status InvoiceStatus `form:"status"`
	pagination.Pagination
}

type ListInvoicesResponse struct {
	Invoices []BillingInvoice    `json:"invoices"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// Service manages plan assignment and the invoice lifecycle for the company
// carried in the request context.
type Service interface {
	AssignPlan(ctx context.Context, req AssignPlanRequest) (CompanyBilling, error)
	GetBilling(ctx context.Context) (CompanyBilling, error)
	RefreshCounts(ctx context.Context) (CompanyBilling, error)
	GenerateInvoice(ctx context.Context, req GenerateInvoiceRequest) (BillingInvoice, error)
	GetInvoice(ctx context.Context, id snowflake.ID) (BillingInvoice, error)
	ListInvoices(ctx context.Context, filter ListInvoicesFilter) (ListInvoicesResponse, error)
	MarkPaid(ctx context.Context, id snowflake.ID) (BillingInvoice, error)
	CancelInvoice(ctx context.Context, id snowflake.ID) (BillingInvoice, error)
	InvoicePDF(ctx context.Context, id snowflake.ID) (io.Reader, error)

	// MarkOverdueSweep flips PENDING invoices past their due date to OVERDUE
	// across all tenants. Driven by the scheduler, not exposed over HTTP.
	MarkOverdueSweep(ctx context.Context) (int, error)

	// RefreshTotalsSweep recomputes cached monthly totals from live headcounts
	// across all tenants. Driven by the scheduler, not exposed over HTTP.
	RefreshTotalsSweep(ctx context.Context) (int, error)
}
