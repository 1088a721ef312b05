package model

// BackupInfo is the metadata block of a snapshot.
type BackupInfo struct {
	Version       string `json:"version"`
	BackupType    string `json:"backup_type"`
	BackupDate    string `json:"backup_date"`
	TotalProducts int    `json:"total_products"`
	CreatedBy     string `json:"created_by"`
}

// BackupStatistics carries the aggregates computed when a snapshot is
// taken. ProductsByType counts records per product type.
type BackupStatistics struct {
	TotalValue          float64        `json:"total_value"`
	TotalWholesaleValue float64        `json:"total_wholesale_value"`
	ProductsByType      map[string]int `json:"products_by_type"`
}

// BackupSnapshot is the full payload written to local backup files, the
// remote backup store and export responses. Products are keyed by
// normalized product number; Go's map marshaling sorts the keys, which
// keeps the serialized form deterministic.
type BackupSnapshot struct {
	Info       BackupInfo         `json:"backup_info"`
	Statistics BackupStatistics   `json:"statistics"`
	Products   map[string]Product `json:"products"`
}

// RemoteBackup is a row in the remote backup store.
type RemoteBackup struct {
	ID            string `json:"_id,omitempty"`
	Filename      string `json:"filename"`
	Data          string `json:"data"`
	CreatedAt     string `json:"created_at"`
	TotalProducts int    `json:"total_products"`
	Type          string `json:"type"`
}

// LocalBackup describes a backup file on disk as returned by the
// listing endpoint.
type LocalBackup struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Type     string `json:"type"`
}
