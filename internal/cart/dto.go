package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
)

// ItemDTO is one cart line joined with its product snapshot.
type ItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartDTO is the whole cart with its computed total.
type CartDTO struct {
	Items []ItemDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// UpdateItemRequest is the payload accepted by the cart mutation endpoint.
type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

func cartFromRows(rows []models.CartItem) *CartDTO {
	items := make([]ItemDTO, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		item := ItemDTO{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		}
		if row.Product != nil {
			item.ProductName = row.Product.Name
			item.ImageURL = row.Product.ImageURL
			item.UnitPrice = row.Product.Price
			item.LineTotal = row.Product.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
			total = total.Add(item.LineTotal)
		}
		items = append(items, item)
	}
	return &CartDTO{Items: items, Total: total}
}
