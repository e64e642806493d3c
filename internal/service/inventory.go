package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/candyline/sweet-shop/internal/apperrors"
	"github.com/candyline/sweet-shop/internal/models"
)

type InventoryService struct {
	DB *gorm.DB
}

// SweetUpdate carries the mutable fields of a sweet. A nil field leaves the
// stored value untouched. Quantity is deliberately absent: stock moves only
// through Purchase and Restock.
type SweetUpdate struct {
	Name     *string
	Category *string
	Price    *float64
}

func (s *InventoryService) List(ctx context.Context, search string) ([]models.Sweet, error) {
	var sweets []models.Sweet
	q := s.DB.WithContext(ctx).Model(&models.Sweet{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name LIKE ? OR category LIKE ?", pattern, pattern)
	}
	if err := q.Find(&sweets).Error; err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return sweets, nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (models.Sweet, error) {
	var sweet models.Sweet
	if err := s.DB.WithContext(ctx).First(&sweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sweet{}, apperrors.ErrNotFound
		}
		return models.Sweet{}, fmt.Errorf("get sweet: %w", err)
	}
	return sweet, nil
}

func (s *InventoryService) Create(ctx context.Context, name, category string, price float64, quantity int) (models.Sweet, error) {
	if name == "" || category == "" {
		return models.Sweet{}, apperrors.Validationf("name and category are required")
	}
	if math.IsNaN(price) || price < 0 {
		return models.Sweet{}, apperrors.Validationf("price must be non-negative")
	}
	if quantity < 0 {
		return models.Sweet{}, apperrors.Validationf("quantity must be non-negative")
	}

	sweet := models.Sweet{
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: quantity,
	}
	if err := s.DB.WithContext(ctx).Create(&sweet).Error; err != nil {
		return models.Sweet{}, fmt.Errorf("create sweet: %w", err)
	}
	return sweet, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint, upd SweetUpdate) (models.Sweet, error) {
	if upd.Name != nil && *upd.Name == "" {
		return models.Sweet{}, apperrors.Validationf("name must not be empty")
	}
	if upd.Category != nil && *upd.Category == "" {
		return models.Sweet{}, apperrors.Validationf("category must not be empty")
	}
	if upd.Price != nil && (math.IsNaN(*upd.Price) || *upd.Price < 0) {
		return models.Sweet{}, apperrors.Validationf("price must be non-negative")
	}

	var sweet models.Sweet
	if err := s.DB.WithContext(ctx).First(&sweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sweet{}, apperrors.ErrNotFound
		}
		return models.Sweet{}, fmt.Errorf("get sweet: %w", err)
	}

	if upd.Name != nil {
		sweet.Name = *upd.Name
	}
	if upd.Category != nil {
		sweet.Category = *upd.Category
	}
	if upd.Price != nil {
		sweet.Price = *upd.Price
	}

	if err := s.DB.WithContext(ctx).Save(&sweet).Error; err != nil {
		return models.Sweet{}, fmt.Errorf("update sweet: %w", err)
	}
	return sweet, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Sweet{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Purchase takes exactly one unit off the shelf. The decrement is a single
// conditional UPDATE, so two buyers racing for the last unit cannot both win:
// the row only changes when quantity is still positive.
func (s *InventoryService) Purchase(ctx context.Context, id uint) (models.Sweet, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.Sweet{}).
		Where("id = ? AND quantity > 0", id).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return models.Sweet{}, fmt.Errorf("purchase sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the sweet does not exist or it is sold out.
		if _, err := s.Get(ctx, id); err != nil {
			return models.Sweet{}, err
		}
		return models.Sweet{}, apperrors.ErrOutOfStock
	}
	return s.Get(ctx, id)
}

func (s *InventoryService) Restock(ctx context.Context, id uint, amount int) (models.Sweet, error) {
	if amount <= 0 {
		return models.Sweet{}, apperrors.Validationf("restock amount must be a positive integer")
	}

	res := s.DB.WithContext(ctx).
		Model(&models.Sweet{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", amount))
	if res.Error != nil {
		return models.Sweet{}, fmt.Errorf("restock sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Sweet{}, apperrors.ErrNotFound
	}
	return s.Get(ctx, id)
}
