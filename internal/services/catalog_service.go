package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// CreateDrugRequest DTO
type CreateDrugRequest struct {
	Name              string  `json:"name" binding:"required"`
	Price             float64 `json:"price"`
	IsDiscontinued    bool    `json:"is_discontinued"`
	Manufacturer      string  `json:"manufacturer"`
	DrugType          string  `json:"drug_type"`
	PackSize          string  `json:"pack_size"`
	ShortComposition1 string  `json:"short_composition1"`
	ShortComposition2 string  `json:"short_composition2"`
	SaltComposition   string  `json:"salt_composition"`
	Description       string  `json:"description"`
	SideEffects       string  `json:"side_effects"`
	DrugInteractions  string  `json:"drug_interactions"`
	Stock             int     `json:"stock"`
}

// CatalogService serves the drug catalog and supplier directory.
type CatalogService interface {
	GetDrugs(ctx context.Context, filters models.DrugFilters) ([]models.Drug, error)
	GetLowStockDrugs(ctx context.Context) ([]models.Drug, error)
	AddDrug(ctx context.Context, req CreateDrugRequest) (*models.Drug, error)
	GetStockMovements(ctx context.Context, drugID int64) ([]models.StockMovement, error)
	GetSuppliers(ctx context.Context) ([]models.Supplier, error)
}

type catalogService struct {
	drugRepo     repositories.DrugRepository
	movementRepo repositories.StockMovementRepository
	authRepo     repositories.AuthRepository
	db           *sqlx.DB
	cache        *cache.Cache
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	drugRepo repositories.DrugRepository,
	movementRepo repositories.StockMovementRepository,
	authRepo repositories.AuthRepository,
	db *sqlx.DB,
	c *cache.Cache,
) CatalogService {
	return &catalogService{
		drugRepo:     drugRepo,
		movementRepo: movementRepo,
		authRepo:     authRepo,
		db:           db,
		cache:        c,
	}
}

// drugFilterKey identifies a filtered listing in the cache.
func drugFilterKey(f models.DrugFilters) string {
	var parts []string
	if f.ID != nil {
		parts = append(parts, "id="+strconv.FormatInt(*f.ID, 10))
	}
	if f.Name != nil {
		parts = append(parts, "name="+strings.ToLower(*f.Name))
	}
	if f.MinPrice != nil {
		parts = append(parts, "min="+strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		parts = append(parts, "max="+strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Discontinued != nil {
		parts = append(parts, "discontinued="+strconv.FormatBool(*f.Discontinued))
	}
	return cache.Key(cache.Drugs, parts...)
}

func (s *catalogService) GetDrugs(ctx context.Context, filters models.DrugFilters) ([]models.Drug, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		return nil, fmt.Errorf("%w: min_price exceeds max_price", ErrValidation)
	}
	return cache.Remember(s.cache, drugFilterKey(filters), 0, func() ([]models.Drug, error) {
		drugs, err := s.drugRepo.GetDrugs(ctx, filters)
		if err != nil {
			return nil, persistenceError(err, "fetching drugs")
		}
		return drugs, nil
	})
}

// GetLowStockDrugs lists drugs at or below the alert threshold.
func (s *catalogService) GetLowStockDrugs(ctx context.Context) ([]models.Drug, error) {
	return cache.Remember(s.cache, cache.Key(cache.LowStock), cache.LowStockTTL, func() ([]models.Drug, error) {
		drugs, err := s.drugRepo.GetLowStockDrugs(ctx, models.LowStockThreshold)
		if err != nil {
			return nil, persistenceError(err, "fetching low stock drugs")
		}
		return drugs, nil
	})
}

func (s *catalogService) AddDrug(ctx context.Context, req CreateDrugRequest) (*models.Drug, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: drug name is required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	drug := &models.Drug{
		Name:              strings.TrimSpace(req.Name),
		Price:             req.Price,
		IsDiscontinued:    req.IsDiscontinued,
		Manufacturer:      utils.NewNullString(req.Manufacturer),
		DrugType:          utils.NewNullString(req.DrugType),
		PackSize:          utils.NewNullString(req.PackSize),
		ShortComposition1: utils.NewNullString(req.ShortComposition1),
		ShortComposition2: utils.NewNullString(req.ShortComposition2),
		SaltComposition:   utils.NewNullString(req.SaltComposition),
		Description:       utils.NewNullString(req.Description),
		SideEffects:       utils.NewNullString(req.SideEffects),
		DrugInteractions:  utils.NewNullString(req.DrugInteractions),
		Stock:             req.Stock,
	}
	if _, err := s.drugRepo.CreateDrug(ctx, s.db, drug); err != nil {
		return nil, persistenceError(err, "creating drug")
	}
	s.cache.Invalidate(cache.Drugs)
	return drug, nil
}

func (s *catalogService) GetStockMovements(ctx context.Context, drugID int64) ([]models.StockMovement, error) {
	if _, err := s.drugRepo.GetDrugByID(ctx, s.db, drugID); err != nil {
		return nil, lookupError(err, ErrDrugNotFound, "fetching drug")
	}
	movements, err := s.movementRepo.GetMovementsByDrugID(ctx, drugID)
	if err != nil {
		return nil, persistenceError(err, "fetching stock movements")
	}
	return movements, nil
}

// GetSuppliers lists suppliers by priority (name, descending).
func (s *catalogService) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return cache.Remember(s.cache, cache.Key(cache.Suppliers), 0, func() ([]models.Supplier, error) {
		suppliers, err := s.authRepo.GetSuppliers(ctx)
		if err != nil {
			return nil, persistenceError(err, "fetching suppliers")
		}
		return suppliers, nil
	})
}
