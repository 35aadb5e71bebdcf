package models

// Product represents a shoe in the catalog.
type Product struct {
	ID          string   `json:"_id" bson:"_id,omitempty" gorm:"primaryKey;column:id;type:varchar(36)"`
	ProductName string   `json:"productName" bson:"productName" gorm:"not null"`
	ShoeType    string   `json:"shoeType" bson:"shoeType" gorm:"not null"`
	Image       []string `json:"image" bson:"image" gorm:"serializer:json;type:text"`
	Price       string   `json:"price" bson:"price" gorm:"not null"` // kept as text, e.g. "129.99"
	Rating      float64  `json:"rating" bson:"rating"`
	Description string   `json:"description" bson:"description" gorm:"not null"`
	Color       []string `json:"color" bson:"color" gorm:"serializer:json;type:text"`
	Size        []string `json:"size" bson:"size" gorm:"serializer:json;type:text"`
}

// AddProductRequest is the body accepted by POST /products.
type AddProductRequest struct {
	ProductName string   `json:"productName" validate:"required"`
	ShoeType    string   `json:"shoeType" validate:"required"`
	Image       []string `json:"image"`
	Price       string   `json:"price" validate:"required"`
	Rating      *float64 `json:"rating" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Color       []string `json:"color"`
	Size        []string `json:"size"`
}

// ToProduct builds the record to persist. Nil lists become empty lists.
func (r AddProductRequest) ToProduct() Product {
	p := Product{
		ProductName: r.ProductName,
		ShoeType:    r.ShoeType,
		Image:       orEmpty(r.Image),
		Price:       r.Price,
		Description: r.Description,
		Color:       orEmpty(r.Color),
		Size:        orEmpty(r.Size),
	}
	if r.Rating != nil {
		p.Rating = *r.Rating
	}
	return p
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
