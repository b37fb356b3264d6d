package services

import (
	"context"
	"errors"
	"fmt"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/reports"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"
)

const recentTicketsLimit = 5

// ReportService generates filtered reports and role dashboards.
type ReportService interface {
	GenerateReport(ctx context.Context, req models.ReportRequest) (*models.ReportResult, error)
	GetPharmacistDashboard(ctx context.Context) (*models.PharmacistDashboard, error)
	GetSupplierDashboard(ctx context.Context, supplierID int64) (*models.SupplierDashboard, error)
}

type reportService struct {
	reportRepo  repositories.ReportRepository
	drugRepo    repositories.DrugRepository
	restockRepo repositories.RestockRepository
	cache       *cache.Cache
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	reportRepo repositories.ReportRepository,
	drugRepo repositories.DrugRepository,
	restockRepo repositories.RestockRepository,
	c *cache.Cache,
) ReportService {
	return &reportService{reportRepo: reportRepo, drugRepo: drugRepo, restockRepo: restockRepo, cache: c}
}

// GenerateReport runs a report with at most one filter. Reports always read fresh data.
func (s *reportService) GenerateReport(ctx context.Context, req models.ReportRequest) (*models.ReportResult, error) {
	query, err := reports.BuildQuery(req)
	if err != nil {
		if errors.Is(err, reports.ErrInvalidRequest) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}

	columns, rows, err := s.reportRepo.RunReport(ctx, query.SQL, query.Args...)
	if err != nil {
		return nil, persistenceError(err, "running report")
	}
	utils.LogDebug("Report generated", map[string]interface{}{"type": req.Type, "filter": query.Label, "rows": len(rows)})

	return &models.ReportResult{
		Type:        req.Type,
		FilterLabel: query.Label,
		Columns:     columns,
		Rows:        rows,
	}, nil
}

type countSpec struct {
	table string
	where string
	args  []interface{}
	dest  *int
}

func (s *reportService) count(ctx context.Context, specs []countSpec) error {
	for _, spec := range specs {
		n, err := s.reportRepo.CountRows(ctx, spec.table, spec.where, spec.args...)
		if err != nil {
			return persistenceError(err, "counting "+spec.table)
		}
		*spec.dest = n
	}
	return nil
}

func (s *reportService) GetPharmacistDashboard(ctx context.Context) (*models.PharmacistDashboard, error) {
	return cache.Remember(s.cache, cache.Key(cache.Dashboards, "pharmacist"), 0, func() (*models.PharmacistDashboard, error) {
		d := &models.PharmacistDashboard{}
		err := s.count(ctx, []countSpec{
			{table: "drugs", dest: &d.TotalDrugs},
			{table: "customers", dest: &d.TotalCustomers},
			{table: "suppliers", dest: &d.TotalSuppliers},
			{table: "orders", dest: &d.TotalOrders},
			{table: "tickets", dest: &d.TotalTickets},
			{table: "drugs", where: "stock <= ?", args: []interface{}{models.LowStockThreshold}, dest: &d.LowStockCount},
		})
		if err != nil {
			return nil, err
		}

		tickets, err := s.restockRepo.GetTickets(ctx, nil)
		if err != nil {
			return nil, persistenceError(err, "fetching recent tickets")
		}
		d.RecentTickets = firstTickets(tickets, recentTicketsLimit)

		d.LowStockDrugs, err = s.drugRepo.GetLowStockDrugs(ctx, models.LowStockThreshold)
		if err != nil {
			return nil, persistenceError(err, "fetching low stock drugs")
		}
		return d, nil
	})
}

func (s *reportService) GetSupplierDashboard(ctx context.Context, supplierID int64) (*models.SupplierDashboard, error) {
	key := cache.Key(cache.Dashboards, "supplier", utils.Int64ToStr(supplierID))
	return cache.Remember(s.cache, key, 0, func() (*models.SupplierDashboard, error) {
		d := &models.SupplierDashboard{}
		err := s.count(ctx, []countSpec{
			{table: "drugs", dest: &d.TotalDrugs},
			{table: "tickets", where: "supplier_id = ?", args: []interface{}{supplierID}, dest: &d.TotalTickets},
			{table: "restock_orders", where: "supplier_id = ?", args: []interface{}{supplierID}, dest: &d.TotalRestockOrders},
			{table: "drugs", where: "stock <= ?", args: []interface{}{models.LowStockThreshold}, dest: &d.LowStockCount},
		})
		if err != nil {
			return nil, err
		}

		tickets, err := s.restockRepo.GetTickets(ctx, &supplierID)
		if err != nil {
			return nil, persistenceError(err, "fetching supplier tickets")
		}
		d.MyRecentTickets = firstTickets(tickets, recentTicketsLimit)
		return d, nil
	})
}

func firstTickets(tickets []models.Ticket, n int) []models.Ticket {
	if len(tickets) > n {
		return tickets[:n]
	}
	return tickets
}
