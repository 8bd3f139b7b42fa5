package resources

import (
	"strings"
	"time"
)

// Inventory item statuses
const (
	InventoryInStock      = "in_stock"
	InventoryOutOfStock   = "out_of_stock"
	InventoryBackordered  = "backordered"
	InventoryDiscontinued = "discontinued"
)

var InventoryItems = Kind{
	Name: "Inventory Items",
	Path: "/inventory-items",
	Columns: []Column{
		{Field: "name", Title: "Name", Sortable: true, Width: 24},
		{Field: "sku", Title: "SKU", Sortable: true, Width: 12},
		{Field: "quantity", Title: "Quantity", Sortable: true, Width: 9},
		{Field: "status", Title: "Status", Sortable: true, Width: 13},
		{Field: "description", Title: "Description", Sortable: false, Width: 28},
	},
	Filters:  []string{"status"},
	Statuses: []string{InventoryInStock, InventoryOutOfStock, InventoryBackordered, InventoryDiscontinued},
}

type InventoryItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Quantity    int64     `json:"quantity"`
	SKU         *string   `json:"sku,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var _ Record = (*InventoryItem)(nil)

func (i *InventoryItem) GetID() int64   { return i.ID }
func (i *InventoryItem) SetID(id int64) { i.ID = id }

func (i *InventoryItem) Created() time.Time { return i.CreatedAt }

func (i *InventoryItem) Stamp(created, updated time.Time) {
	i.CreatedAt = created
	i.UpdatedAt = updated
}

func (i *InventoryItem) Field(name string) any {
	switch name {
	case "id":
		return i.ID
	case "name":
		return i.Name
	case "description":
		return optional(i.Description)
	case "quantity":
		return i.Quantity
	case "sku":
		return optional(i.SKU)
	case "status":
		return i.Status
	}
	return nil
}

func (i *InventoryItem) SearchText() string {
	return strings.Join([]string{i.Name, valueOf(i.Description), valueOf(i.SKU)}, " ")
}
