package services

import (
	"context"
	"strings"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// AddPharmacyPaymentRequest DTO
type AddPharmacyPaymentRequest struct {
	PaymentMethodID int64  `json:"payment_method_id" binding:"required"`
	AccountDetails  string `json:"account_details"`
	IsDefault       bool   `json:"is_default"`
}

// PaymentService exposes payments, payment methods and supplier notifications.
type PaymentService interface {
	GetPayments(ctx context.Context) ([]models.Payment, error)
	GetPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	AddPharmacyPayment(ctx context.Context, pharmacyID int64, req AddPharmacyPaymentRequest) (*models.PharmacyPayment, error)
	GetPharmacyPayments(ctx context.Context, pharmacyID int64) ([]models.PharmacyPayment, error)
	GetNotifications(ctx context.Context, supplierID int64) ([]models.SupplierNotification, error)
	MarkNotificationsRead(ctx context.Context, supplierID int64) (int64, error)
}

type paymentService struct {
	paymentRepo      repositories.PaymentRepository
	notificationRepo repositories.NotificationRepository
	db               *sqlx.DB
	cache            *cache.Cache
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	notificationRepo repositories.NotificationRepository,
	db *sqlx.DB,
	c *cache.Cache,
) PaymentService {
	return &paymentService{
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		db:               db,
		cache:            c,
	}
}

func (s *paymentService) GetPayments(ctx context.Context) ([]models.Payment, error) {
	return cache.Remember(s.cache, cache.Key(cache.Payments), 0, func() ([]models.Payment, error) {
		payments, err := s.paymentRepo.GetPayments(ctx)
		if err != nil {
			return nil, persistenceError(err, "fetching payments")
		}
		return payments, nil
	})
}

func (s *paymentService) GetPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return cache.Remember(s.cache, cache.Key(cache.PaymentMethods), 0, func() ([]models.PaymentMethod, error) {
		methods, err := s.paymentRepo.GetPaymentMethods(ctx)
		if err != nil {
			return nil, persistenceError(err, "fetching payment methods")
		}
		return methods, nil
	})
}

// AddPharmacyPayment links a payment method to a pharmacy. A new default replaces the previous one.
func (s *paymentService) AddPharmacyPayment(ctx context.Context, pharmacyID int64, req AddPharmacyPaymentRequest) (*models.PharmacyPayment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistenceError(err, "starting pharmacy payment transaction")
	}
	defer tx.Rollback()

	method, err := s.paymentRepo.GetPaymentMethodByID(ctx, tx, req.PaymentMethodID)
	if err != nil {
		return nil, lookupError(err, ErrPaymentMethodNotFound, "resolving payment method")
	}

	if req.IsDefault {
		if err := s.paymentRepo.ClearDefaultPharmacyPayment(ctx, tx, pharmacyID); err != nil {
			return nil, persistenceError(err, "clearing default payment method")
		}
	}
	pp := &models.PharmacyPayment{
		PharmacyID:      pharmacyID,
		PaymentMethodID: method.ID,
		AccountDetails:  strings.TrimSpace(req.AccountDetails),
		IsDefault:       req.IsDefault,
		MethodName:      method.MethodName,
	}
	if _, err := s.paymentRepo.CreatePharmacyPayment(ctx, tx, pp); err != nil {
		return nil, persistenceError(err, "adding pharmacy payment method")
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err, "committing pharmacy payment method")
	}
	s.cache.Invalidate(cache.PharmacyPayments)
	return pp, nil
}

func (s *paymentService) GetPharmacyPayments(ctx context.Context, pharmacyID int64) ([]models.PharmacyPayment, error) {
	key := cache.Key(cache.PharmacyPayments, utils.Int64ToStr(pharmacyID))
	return cache.Remember(s.cache, key, 0, func() ([]models.PharmacyPayment, error) {
		list, err := s.paymentRepo.GetPharmacyPayments(ctx, pharmacyID)
		if err != nil {
			return nil, persistenceError(err, "fetching pharmacy payment methods")
		}
		return list, nil
	})
}

// GetNotifications lists a supplier's notifications, newest first.
func (s *paymentService) GetNotifications(ctx context.Context, supplierID int64) ([]models.SupplierNotification, error) {
	key := cache.Key(cache.Notifications, utils.Int64ToStr(supplierID))
	return cache.Remember(s.cache, key, 0, func() ([]models.SupplierNotification, error) {
		list, err := s.notificationRepo.GetNotifications(ctx, supplierID)
		if err != nil {
			return nil, persistenceError(err, "fetching notifications")
		}
		return list, nil
	})
}

func (s *paymentService) MarkNotificationsRead(ctx context.Context, supplierID int64) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, supplierID)
	if err != nil {
		return 0, persistenceError(err, "marking notifications read")
	}
	s.cache.Invalidate(cache.Notifications)
	return n, nil
}
