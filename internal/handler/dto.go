package handler

import (
	"time"

	"github.com/homegym/storefront/internal/domain/cart"
	"github.com/homegym/storefront/internal/domain/catalog"
	"github.com/homegym/storefront/internal/domain/customer"
	"github.com/homegym/storefront/internal/domain/order"
	"github.com/homegym/storefront/internal/domain/promotion"
)

// Money fields cross the wire as float64; decimals are exact internally and
// rounded to 2 places before conversion.

type menuItemDTO struct {
	ID             int64   `json:"id"`
	CategoryID     int64   `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	CategoryNameTH string  `json:"category_name_th,omitempty"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"image_url"`
	IsPopular      bool    `json:"is_popular"`
	IsAvailable    bool    `json:"is_available"`
}

func toMenuItemDTO(mi catalog.MenuItem) menuItemDTO {
	return menuItemDTO{
		ID:             mi.ID,
		CategoryID:     mi.CategoryID,
		CategoryName:   mi.CategoryName,
		CategoryNameTH: mi.CategoryNameTH,
		Name:           mi.Name,
		Description:    mi.Description,
		Price:          mi.Price.InexactFloat64(),
		ImageURL:       mi.ImageURL,
		IsPopular:      mi.IsPopular,
		IsAvailable:    mi.IsAvailable,
	}
}

func toMenuItemDTOs(items []catalog.MenuItem) []menuItemDTO {
	out := make([]menuItemDTO, len(items))
	for i, mi := range items {
		out[i] = toMenuItemDTO(mi)
	}
	return out
}

type categoryDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	NameTH    string `json:"name_th,omitempty"`
	ItemCount int    `json:"item_count"`
}

func toCategoryDTOs(categories []catalog.Category) []categoryDTO {
	out := make([]categoryDTO, len(categories))
	for i, c := range categories {
		out[i] = categoryDTO{ID: c.ID, Name: c.Name, NameTH: c.NameTH, ItemCount: c.ItemCount}
	}
	return out
}

type orderItemDTO struct {
	MenuItemID  int64   `json:"menu_item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type orderDTO struct {
	OrderID         int64          `json:"order_id"`
	OrderNumber     string         `json:"order_number"`
	CustomerID      int64          `json:"customer_id"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerEmail   string         `json:"customer_email,omitempty"`
	CustomerAddress string         `json:"customer_address,omitempty"`
	PaymentMethod   string         `json:"payment_method"`
	SpecialNotes    string         `json:"special_notes,omitempty"`
	Items           []orderItemDTO `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	ShippingFee     float64        `json:"shipping_fee"`
	TotalAmount     float64        `json:"total_amount"`
	OrderStatus     string         `json:"order_status"`
	CreatedAt       time.Time      `json:"created_at"`
}

func toOrderDTO(o *order.Order) orderDTO {
	items := make([]orderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemDTO{
			MenuItemID:  item.MenuItemID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			TotalPrice:  item.TotalPrice.InexactFloat64(),
		}
	}
	return orderDTO{
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		PaymentMethod:   string(o.PaymentMethod),
		SpecialNotes:    o.SpecialNotes,
		Items:           items,
		Subtotal:        o.Subtotal.InexactFloat64(),
		ShippingFee:     o.Shipping.InexactFloat64(),
		TotalAmount:     o.Total.InexactFloat64(),
		OrderStatus:     string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

type customerDTO struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	TotalOrders       int       `json:"total_orders"`
	TotalSpent        float64   `json:"total_spent"`
	AverageOrderValue float64   `json:"average_order_value"`
	CreatedAt         time.Time `json:"created_at"`
}

func toCustomerDTO(c customer.Customer) customerDTO {
	return customerDTO{
		ID:                c.ID,
		Name:              c.Name,
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		TotalOrders:       c.TotalOrders,
		TotalSpent:        c.TotalSpent.InexactFloat64(),
		AverageOrderValue: c.AverageOrderValue.Round(2).InexactFloat64(),
		CreatedAt:         c.CreatedAt,
	}
}

type customerDetailDTO struct {
	customerDTO
	RecentOrders []orderDTO `json:"recent_orders"`
}

func toCustomerDetailDTO(c customer.Customer, recent []order.Order) customerDetailDTO {
	orders := make([]orderDTO, len(recent))
	for i := range recent {
		orders[i] = toOrderDTO(&recent[i])
	}
	return customerDetailDTO{customerDTO: toCustomerDTO(c), RecentOrders: orders}
}

func toCustomerDTOs(customers []customer.Customer) []customerDTO {
	out := make([]customerDTO, len(customers))
	for i, c := range customers {
		out[i] = toCustomerDTO(c)
	}
	return out
}

type promotionDTO struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent *float64   `json:"discount_percent"`
	DiscountAmount  *float64   `json:"discount_amount"`
	PromoCode       string     `json:"promo_code,omitempty"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toPromotionDTO(p promotion.Promotion) promotionDTO {
	dto := promotionDTO{
		ID:          p.ID,
		Title:       p.Name,
		Description: p.Description,
		PromoCode:   p.PromoCode,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
	if p.DiscountPercent != nil {
		v := p.DiscountPercent.InexactFloat64()
		dto.DiscountPercent = &v
	}
	if p.DiscountAmount != nil {
		v := p.DiscountAmount.InexactFloat64()
		dto.DiscountAmount = &v
	}
	return dto
}

func toPromotionDTOs(promotions []promotion.Promotion) []promotionDTO {
	out := make([]promotionDTO, len(promotions))
	for i, p := range promotions {
		out[i] = toPromotionDTO(p)
	}
	return out
}

type cartItemDTO struct {
	ItemID    int64   `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	ImageURL  string  `json:"image_url,omitempty"`
}

type cartDTO struct {
	Items       []cartItemDTO `json:"items"`
	ItemCount   int           `json:"item_count"`
	Pending     map[int64]int `json:"pending,omitempty"`
	Subtotal    float64       `json:"subtotal"`
	ShippingFee float64       `json:"shipping_fee"`
	Total       float64       `json:"total"`
}

func toCartDTO(sess *cart.Session, totals cart.Totals) cartDTO {
	items := make([]cartItemDTO, len(sess.Cart.Items))
	for i, li := range sess.Cart.Items {
		items[i] = cartItemDTO{
			ItemID:    li.ItemID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice.InexactFloat64(),
			Quantity:  li.Quantity,
			Total:     li.Total().InexactFloat64(),
			ImageURL:  li.ImageURL,
		}
	}
	return cartDTO{
		Items:       items,
		ItemCount:   sess.Cart.Count(),
		Pending:     sess.Pending,
		Subtotal:    totals.Subtotal.InexactFloat64(),
		ShippingFee: totals.Shipping.InexactFloat64(),
		Total:       totals.Total.InexactFloat64(),
	}
}
