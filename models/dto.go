package models

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,min=1,max=120"`
	Language string `json:"language" binding:"omitempty,oneof=en ja"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken  string `json:"id_token" binding:"required"`
	Language string `json:"language" binding:"omitempty,oneof=en ja"`
}

type AddCartItemRequest struct {
	ProductID int  `json:"product_id" binding:"required,min=1"`
	VariantID *int `json:"variant_id" binding:"omitempty,min=1"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1,max=99"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=99"`
}

type CreateOrderRequest struct {
	Email           string        `json:"email" binding:"omitempty,email,max=255"`
	ShippingAddress Address       `json:"shipping_address" binding:"required"`
	BillingAddress  *Address      `json:"billing_address" binding:"omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method" binding:"required,oneof=credit_card cod"`
	Notes           string        `json:"notes" binding:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,order_status"`
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"max=200"`
	Body   string `json:"body" binding:"max=5000"`
}

type ProductInput struct {
	SKU           string `json:"sku" binding:"required,max=64"`
	Slug          string `json:"slug" binding:"required,max=160"`
	NameEN        string `json:"name_en" binding:"required,max=200"`
	NameJA        string `json:"name_ja" binding:"max=200"`
	DescriptionEN string `json:"description_en"`
	DescriptionJA string `json:"description_ja"`
	CategoryID    int    `json:"category_id" binding:"required,min=1"`
	BrandID       *int   `json:"brand_id" binding:"omitempty,min=1"`
	Price         int64  `json:"price" binding:"min=0"`
	ComparePrice  *int64 `json:"compare_price" binding:"omitempty,min=0"`
	Stock         int    `json:"stock" binding:"min=0"`
	IsFeatured    bool   `json:"is_featured"`
	IsActive      *bool  `json:"is_active"`
}

// ProductPatch lists every column an admin may change. Keys outside it are
// rejected by the decoder.
type ProductPatch struct {
	NameEN        *string `json:"name_en" binding:"omitempty,min=1,max=200"`
	NameJA        *string `json:"name_ja" binding:"omitempty,max=200"`
	DescriptionEN *string `json:"description_en"`
	DescriptionJA *string `json:"description_ja"`
	CategoryID    *int    `json:"category_id" binding:"omitempty,min=1"`
	BrandID       *int    `json:"brand_id" binding:"omitempty,min=1"`
	Price         *int64  `json:"price" binding:"omitempty,min=0"`
	ComparePrice  *int64  `json:"compare_price" binding:"omitempty,min=0"`
	Stock         *int    `json:"stock" binding:"omitempty,min=0"`
	IsFeatured    *bool   `json:"is_featured"`
	IsActive      *bool   `json:"is_active"`
}

func (p *ProductPatch) Empty() bool {
	return p.NameEN == nil && p.NameJA == nil && p.DescriptionEN == nil &&
		p.DescriptionJA == nil && p.CategoryID == nil && p.BrandID == nil &&
		p.Price == nil && p.ComparePrice == nil && p.Stock == nil &&
		p.IsFeatured == nil && p.IsActive == nil
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer admin"`
}

type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
