package domain

import "time"

// Product is a content-store document. Price and Stock are pointers because
// a document may be published without them: a missing price blocks checkout,
// a missing stock means the product is not stock-tracked.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug,omitempty" json:"slug,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       *int64    `bson:"price,omitempty" json:"price,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Stock       *int64    `bson:"stock,omitempty" json:"stock,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
