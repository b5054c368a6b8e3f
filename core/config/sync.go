package config

// Sync groups the options shared by the synchronization jobs.
type Sync struct {
	// OnlyActive skips source records whose status is not active instead
	// of mirroring them as disabled.
	OnlyActive bool `mapstructure:"only_active" default:"false"`
	// DisableInactive marks destination records as disabled when the
	// source says the record is inactive.
	DisableInactive bool `mapstructure:"disable_inactive" default:"true"`

	// DefaultSupplierGroup is assigned to every synchronized supplier.
	DefaultSupplierGroup string `mapstructure:"default_supplier_group" default:"Local"`
	// DefaultSupplierType is assigned to every synchronized supplier.
	DefaultSupplierType string `mapstructure:"default_supplier_type" default:"Company"`
	// DefaultItemGroup receives items whose source group is empty.
	DefaultItemGroup string `mapstructure:"default_item_group" default:"SEM GRUPO"`
	// DefaultUOM is the unit of measure for items without one.
	DefaultUOM string `mapstructure:"default_uom" default:"Unidade"`

	// Company is the company stock entries are booked against.
	Company string `mapstructure:"company" default:"CDC"`
	// ParentCostCenter is the group cost center that holds the synced
	// cost centers.
	ParentCostCenter string `mapstructure:"parent_cost_center" default:"CDC - CDC"`
	// MappingFile is the path to the cost-center to warehouse CSV.
	MappingFile string `mapstructure:"mapping_file" default:"mapping.csv"`

	// MaxWaitCreateSeconds bounds the visibility poll after a create.
	MaxWaitCreateSeconds int `mapstructure:"max_wait_create_seconds" default:"15"`
	// VerifyIntervalSeconds is the pause between visibility polls.
	VerifyIntervalSeconds int `mapstructure:"verify_interval_seconds" default:"3"`
}
