package models

import "time"

type Category struct {
	ID            int        `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	NameEN        string     `json:"name_en"`
	NameJA        string     `json:"name_ja"`
	Description   string     `json:"description"`
	DescriptionEN string     `json:"-"`
	DescriptionJA string     `json:"-"`
	ParentID      *int       `json:"parent_id,omitempty"`
	SortOrder     int        `json:"sort_order"`
	ProductCount  int        `json:"product_count"`
	Children      []Category `json:"children,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (c *Category) Localize(lang string) {
	c.Name = pick(lang, c.NameEN, c.NameJA)
	c.Description = pick(lang, c.DescriptionEN, c.DescriptionJA)
	for i := range c.Children {
		c.Children[i].Localize(lang)
	}
}

type Brand struct {
	ID           int       `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	LogoURL      string    `json:"logo_url"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ID            int              `json:"id"`
	SKU           string           `json:"sku"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	NameEN        string           `json:"name_en"`
	NameJA        string           `json:"name_ja"`
	Description   string           `json:"description"`
	DescriptionEN string           `json:"description_en"`
	DescriptionJA string           `json:"description_ja"`
	CategoryID    int              `json:"category_id"`
	CategorySlug  string           `json:"category_slug,omitempty"`
	BrandID       *int             `json:"brand_id,omitempty"`
	BrandName     string           `json:"brand_name,omitempty"`
	Price         int64            `json:"price"`
	ComparePrice  *int64           `json:"compare_price,omitempty"`
	Stock         int              `json:"stock"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      bool             `json:"is_active"`
	RatingAvg     float64          `json:"rating_avg"`
	ReviewCount   int              `json:"review_count"`
	ImageURL      string           `json:"image_url"`
	Images        []ProductImage   `json:"images,omitempty"`
	Variants      []ProductVariant `json:"variants,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (p *Product) Localize(lang string) {
	p.Name = pick(lang, p.NameEN, p.NameJA)
	p.Description = pick(lang, p.DescriptionEN, p.DescriptionJA)
	for i := range p.Variants {
		p.Variants[i].Localize(lang)
	}
}

// Variant returns the variant with the given id, if the product carries it.
func (p *Product) Variant(id int) (*ProductVariant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

type ProductImage struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	URL       string `json:"url"`
	PublicID  string `json:"-"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
	IsPrimary bool   `json:"is_primary"`
}

type ProductVariant struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	NameEN    string `json:"name_en"`
	NameJA    string `json:"name_ja"`
	Price     int64  `json:"price"`
	Stock     int    `json:"stock"`
	IsActive  bool   `json:"is_active"`
}

func (v *ProductVariant) Localize(lang string) {
	v.Name = pick(lang, v.NameEN, v.NameJA)
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
	SortRating    = "rating"
	SortPopular   = "popular"
)

type ProductFilter struct {
	Search       string `form:"q"`
	CategorySlug string `form:"category"`
	BrandSlug    string `form:"brand"`
	MinPrice     *int64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice     *int64 `form:"max_price" binding:"omitempty,min=0"`
	InStock      bool   `form:"in_stock"`
	Featured     bool   `form:"featured"`
	Sort         string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc name rating popular"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`

	IncludeInactive bool `form:"-" json:"-"`
}

type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func pick(lang, en, ja string) string {
	if lang == "ja" && ja != "" {
		return ja
	}
	return en
}

// ProductPage is one page of a product listing, as cached.
type ProductPage struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
