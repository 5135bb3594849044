package model

import "time"

// Item represents a borrowable asset type (a costume, instrument or prop).
// Stock is tracked per variant, not per item.
type Item struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category,omitempty"`
	ImageMime string     `json:"image_mime,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	Variants []Variant `json:"variants,omitempty"`
}

// Variant is a concrete color/size instance of an item and the unit of stock
// tracking. Stock is only ever written by checkout (decrement) and return
// approval (increment).
type Variant struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Location  string    `json:"location,omitempty"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
}

// Label returns a human-readable identifier for the variant, used in audit
// entries and error messages.
func (v *Variant) Label() string {
	label := v.ItemName
	if label == "" {
		label = "variant"
	}
	if v.Color != "" {
		label += " " + v.Color
	}
	if v.Size != "" {
		label += "/" + v.Size
	}
	return label
}
