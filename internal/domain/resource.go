package domain

import "time"

type ResourceType string

const (
	ResourceTypeElectronics    ResourceType = "Electronics"
	ResourceTypeFurniture      ResourceType = "Furniture"
	ResourceTypeOfficeSupplies ResourceType = "Office Supplies"
	ResourceTypeBooks          ResourceType = "Books"
	ResourceTypeTools          ResourceType = "Tools"
	ResourceTypeOther          ResourceType = "Other"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeElectronics, ResourceTypeFurniture, ResourceTypeOfficeSupplies,
		ResourceTypeBooks, ResourceTypeTools, ResourceTypeOther:
		return true
	}
	return false
}

type ResourceStatus string

const (
	ResourceStatusAvailable    ResourceStatus = "Available"
	ResourceStatusCheckedOut   ResourceStatus = "Checked Out"
	ResourceStatusNeedsRepair  ResourceStatus = "Needs Repair"
	ResourceStatusOutOfStock   ResourceStatus = "Out of Stock"
	ResourceStatusDiscontinued ResourceStatus = "Discontinued"
)

func (s ResourceStatus) Valid() bool {
	switch s {
	case ResourceStatusAvailable, ResourceStatusCheckedOut, ResourceStatusNeedsRepair,
		ResourceStatusOutOfStock, ResourceStatusDiscontinued:
		return true
	}
	return false
}

type MaintenanceSchedule string

const (
	MaintenanceNone         MaintenanceSchedule = "None"
	MaintenanceMonthly      MaintenanceSchedule = "Monthly"
	MaintenanceQuarterly    MaintenanceSchedule = "Quarterly"
	MaintenanceSemiAnnually MaintenanceSchedule = "Semi-annually"
	MaintenanceAnnually     MaintenanceSchedule = "Annually"
)

// Interval returns the cadence between maintenance dates, or zero for None.
func (m MaintenanceSchedule) Interval() time.Duration {
	switch m {
	case MaintenanceMonthly:
		return 30 * 24 * time.Hour
	case MaintenanceQuarterly:
		return 91 * 24 * time.Hour
	case MaintenanceSemiAnnually:
		return 182 * 24 * time.Hour
	case MaintenanceAnnually:
		return 365 * 24 * time.Hour
	}
	return 0
}

// Resource is a catalog entry for a physical item the organization owns.
// Quantity is the total owned count; AvailableQuantity is the portion not
// currently checked out. Both are mutated only through the catalog service.
type Resource struct {
	ID                  int32               `json:"id"`
	Name                string              `json:"name"`
	Type                ResourceType        `json:"type"`
	Category            string              `json:"category,omitempty"`
	Quantity            int32               `json:"quantity"`
	AvailableQuantity   int32               `json:"available_quantity"`
	Location            string              `json:"location"`
	Status              ResourceStatus      `json:"status"`
	Description         string              `json:"description,omitempty"`
	PurchaseDate        *time.Time          `json:"purchase_date,omitempty"`
	PurchasePriceCents  int64               `json:"purchase_price_cents,omitempty"`
	Supplier            string              `json:"supplier,omitempty"`
	WarrantyExpiry      *time.Time          `json:"warranty_expiry,omitempty"`
	MaintenanceSchedule MaintenanceSchedule `json:"maintenance_schedule"`
	LastMaintenance     *time.Time          `json:"last_maintenance,omitempty"`
	NextMaintenance     *time.Time          `json:"next_maintenance,omitempty"`
	Barcode             *string             `json:"barcode,omitempty"`
	Tags                []string            `json:"tags,omitempty"`
	IsActive            bool                `json:"is_active"`
	CreatedBy           int32               `json:"created_by"`
	LastModifiedBy      *int32              `json:"last_modified_by,omitempty"`
	CreatedOn           time.Time           `json:"created_on"`
	UpdatedOn           time.Time           `json:"updated_on"`
}

// CheckedOutQuantity is the number of units currently out on loan.
func (r *Resource) CheckedOutQuantity() int32 {
	return r.Quantity - r.AvailableQuantity
}

// CanCheckout reports whether qty units may be checked out right now.
func (r *Resource) CanCheckout(qty int32) bool {
	return r.Status == ResourceStatusAvailable && r.AvailableQuantity >= qty
}

// Checkout removes qty units from available stock. It returns false, leaving
// the resource untouched, when the checkout precondition does not hold.
func (r *Resource) Checkout(qty int32) bool {
	if !r.CanCheckout(qty) {
		return false
	}
	r.AvailableQuantity -= qty
	if r.AvailableQuantity == 0 {
		r.Status = ResourceStatusOutOfStock
	}
	return true
}

// Checkin returns qty units to available stock, clamped so available never
// exceeds total. An Out of Stock resource becomes Available again.
func (r *Resource) Checkin(qty int32) {
	r.AvailableQuantity += qty
	if r.Status == ResourceStatusOutOfStock && r.AvailableQuantity > 0 {
		r.Status = ResourceStatusAvailable
	}
	if r.AvailableQuantity > r.Quantity {
		r.AvailableQuantity = r.Quantity
	}
}

// IsLowStock reports whether available stock is at or below threshold.
func (r *Resource) IsLowStock(threshold int32) bool {
	return r.AvailableQuantity <= threshold
}

// Normalize applies the status/quantity coupling rule enforced on every
// mutating write: terminal stock statuses zero the available count, and
// available is clamped to the total.
func (r *Resource) Normalize() {
	if r.Status == ResourceStatusOutOfStock || r.Status == ResourceStatusDiscontinued {
		r.AvailableQuantity = 0
		return
	}
	if r.AvailableQuantity > r.Quantity {
		r.AvailableQuantity = r.Quantity
	}
}
