package model

import "time"

// Category groups products. Names are unique across the catalog and
// each category remembers the admin that created it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique category name.
//  OwnerID   – user ID of the creating admin.
//  CreatedAt – timestamp of creation.
type Category struct {
    ID        uint64    `json:"id"`       // categories.id
    Name      string    `json:"name"`     // categories.name
    OwnerID   uint64    `json:"owner_id"` // categories.owner_id
    CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable item listed by a seller inside a category.
// Prices are stored in cents to avoid floating point rounding.
type Product struct {
    ID         uint64    `json:"id"`          // products.id
    Name       string    `json:"name"`        // products.name
    PriceCents uint32    `json:"price_cents"` // products.price_cents
    CategoryID uint64    `json:"category_id"` // products.category_id
    SellerID   uint64    `json:"seller_id"`   // products.seller_id
    IsActive   bool      `json:"is_active"`   // products.is_active
    CreatedAt  time.Time `json:"created_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}

// CartItem is one product line in a user's cart. Product is populated
// when the line is loaded together with its product row.
type CartItem struct {
    ID        uint64   `json:"id"`         // cart_items.id
    UserID    uint64   `json:"user_id"`    // cart_items.user_id
    ProductID uint64   `json:"product_id"` // cart_items.product_id
    Quantity  uint32   `json:"quantity"`   // cart_items.quantity
    Product   *Product `json:"product,omitempty"`
}

// Cart is the full content of a user's cart with its computed total.
type Cart struct {
    Items      []CartItem `json:"items"`
    TotalCents uint64     `json:"total_cents"`
}

// NewCart builds a Cart from loaded lines, summing price*quantity of
// every line whose product is known.
func NewCart(items []CartItem) Cart {
    if items == nil {
        items = []CartItem{}
    }
    var total uint64
    for _, it := range items {
        if it.Product != nil {
            total += uint64(it.Product.PriceCents) * uint64(it.Quantity)
        }
    }
    return Cart{Items: items, TotalCents: total}
}
