package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hrplane/hrplane/internal/addon"
	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	"github.com/hrplane/hrplane/internal/audit"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	"github.com/hrplane/hrplane/internal/billingplan"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	"github.com/hrplane/hrplane/internal/company"
	companydomain "github.com/hrplane/hrplane/internal/company/domain"
	"github.com/hrplane/hrplane/internal/companybilling"
	billingdomain "github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/hrplane/hrplane/internal/config"
	"github.com/hrplane/hrplane/internal/employee"
	employeedomain "github.com/hrplane/hrplane/internal/employee/domain"
	"github.com/hrplane/hrplane/internal/payroll"
	payrolldomain "github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/hrplane/hrplane/internal/providers/pdf"
	"github.com/hrplane/hrplane/internal/ratelimit"
	"github.com/hrplane/hrplane/internal/revenue"
	revenuedomain "github.com/hrplane/hrplane/internal/revenue/domain"
	"github.com/hrplane/hrplane/internal/taxrate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	pdf.Module,
	ratelimit.Module,
	taxrate.Module,
	audit.Module,
	company.Module,
	employee.Module,
	billingplan.Module,
	addon.Module,
	companybilling.Module,
	payroll.Module,
	revenue.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config

	companySvc  companydomain.Service
	employeeSvc employeedomain.Service
	payrollSvc  payrolldomain.Service
	billingSvc  billingdomain.Service
	planSvc     plandomain.Service
	addonSvc    addondomain.Service
	revenueSvc  revenuedomain.Service
	auditSvc    auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config

	CompanySvc  companydomain.Service
	EmployeeSvc employeedomain.Service
	PayrollSvc  payrolldomain.Service
	BillingSvc  billingdomain.Service
	PlanSvc     plandomain.Service
	AddonSvc    addondomain.Service
	RevenueSvc  revenuedomain.Service
	AuditSvc    auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		companySvc:  p.CompanySvc,
		employeeSvc: p.EmployeeSvc,
		payrollSvc:  p.PayrollSvc,
		billingSvc:  p.BillingSvc,
		planSvc:     p.PlanSvc,
		addonSvc:    p.AddonSvc,
		revenueSvc:  p.RevenueSvc,
		auditSvc:    p.AuditSvc,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/signup", s.Signup)

	scoped := api.Group("/", CompanyContext())

	// -------- Company --------
	scoped.GET("/company", s.GetCompany)
	scoped.POST("/company/suspend", s.SuspendCompany)
	scoped.POST("/company/reactivate", s.ReactivateCompany)
	scoped.POST("/company/users", s.AddUser)
	scoped.POST("/company/users/:id/deactivate", s.DeactivateUser)

	// -------- Employees --------
	scoped.GET("/employees", s.ListEmployees)
	scoped.POST("/employees", s.CreateEmployee)
	scoped.GET("/employees/:id", s.GetEmployee)
	scoped.PATCH("/employees/:id/salary", s.UpdateEmployeeSalary)
	scoped.POST("/employees/:id/deactivate", s.DeactivateEmployee)
	scoped.GET("/employees/:id/bank-account", s.GetEmployeeBankAccount)

	// -------- Payroll --------
	scoped.POST("/payroll/runs", s.RunPayroll)
	scoped.GET("/payroll/records", s.ListPayrollRecords)
	scoped.GET("/payroll/records/:id", s.GetPayrollRecord)
	scoped.POST("/payroll/records/:id/adjustments", s.AddPayrollAdjustment)
	scoped.POST("/payroll/records/:id/transition", s.TransitionPayrollStatus)
	scoped.GET("/payroll/records/:id/payslip", s.DownloadPayslip)

	// -------- Billing --------
	scoped.PUT("/billing/plan", s.AssignPlan)
	scoped.GET("/billing", s.GetBilling)
	scoped.POST("/billing/refresh-counts", s.RefreshBillingCounts)
	scoped.POST("/billing/invoices", s.GenerateInvoice)
	scoped.GET("/billing/invoices", s.ListInvoices)
	scoped.GET("/billing/invoices/:id", s.GetInvoice)
	scoped.POST("/billing/invoices/:id/pay", s.PayInvoice)
	scoped.POST("/billing/invoices/:id/cancel", s.CancelInvoice)
	scoped.GET("/billing/invoices/:id/pdf", s.DownloadInvoice)

	// -------- Add-ons --------
	scoped.GET("/addons/catalog", s.ListAddonCatalog)
	scoped.GET("/addons", s.ListActiveAddons)
	scoped.POST("/addons/:code/activate", s.ActivateAddon)
	scoped.POST("/addons/:code/cancel", s.CancelAddon)

	// -------- Audit --------
	scoped.GET("/audit-logs", s.ListAuditLogs)
}

// Admin routes are operator-facing and not tenant scoped.
func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.GET("/plans", s.ListPlans)
	admin.POST("/plans", s.CreatePlan)
	admin.GET("/plans/:id", s.GetPlanByID)
	admin.PATCH("/plans/:id/prices", s.UpdatePlanPrices)

	admin.GET("/revenue/summary", s.GetRevenueSummary)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
