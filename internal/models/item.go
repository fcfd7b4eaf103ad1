package models

// Item is a bookable catalog entry: a place, an experience or a service.
type Item struct {
	ID      string   `json:"id"`
	Type    ItemType `json:"type"`
	Title   string   `json:"title"`
	Address string   `json:"address"`
	Price   float64  `json:"price"`
}
