package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
)

// buildCartItems resolves requested lines against the catalog and computes line totals.
// Products are looked up once per distinct id.
func buildCartItems(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, orderID string, inputs []domain.CartItemInput) ([]domain.OrderCartItem, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("cart must contain at least one item")
	}

	products := make(map[string]*domain.Product)
	items := make([]domain.OrderCartItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("cart item %d: quantity must be greater than zero", i))
		}
		if in.UnitPrice.IsNegative() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("cart item %d: unit price must not be negative", i))
		}

		item := domain.OrderCartItem{
			CartItemID:  uuid.NewString(),
			OrderID:     orderID,
			SKU:         strings.TrimSpace(in.SKU),
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
			TaxRate:     decimal.Zero,
		}

		if productID := normalizeOptional(in.ProductID); productID != nil {
			product, ok := products[*productID]
			if !ok {
				var err error
				product, err = uow.Catalog().FindProduct(ctx, sellerID, *productID)
				if err != nil {
					return nil, err
				}
				products[*productID] = product
			}
			id := product.ProductID
			item.ProductID = &id
			item.SKU = product.SKU
			item.Name = product.Name
			item.Description = product.Description
			if product.TaxCode != nil {
				taxCodeID := product.TaxCode.TaxCodeID
				item.TaxCodeID = &taxCodeID
				item.TaxRate = product.TaxCode.Rate
			}
		} else if item.Name == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("cart item %d: name is required without a product", i))
		}

		items = append(items, item)
	}
	return items, nil
}

// replaceCartItems swaps every cart line of the order for the resolved inputs
// and returns the new lines with their total.
func replaceCartItems(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, orderID string, inputs []domain.CartItemInput) ([]domain.OrderCartItem, decimal.Decimal, error) {
	items, err := buildCartItems(ctx, uow, sellerID, orderID, inputs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := uow.CartItems().DeleteCartItemsByOrderID(ctx, orderID); err != nil {
		return nil, decimal.Zero, err
	}
	if err := uow.CartItems().SaveCartItems(ctx, items); err != nil {
		return nil, decimal.Zero, err
	}
	return items, domain.SumLineTotals(items), nil
}
