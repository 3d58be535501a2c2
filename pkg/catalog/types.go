package catalog

import "time"

// Database describes one catalog database.
type Database struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	LocationURI string            `json:"location_uri,omitempty"`
	Parameters  map[string]string `json:"parameters,omitempty"`
	TableCount  int               `json:"table_count"`
	CreateTime  *time.Time        `json:"create_time,omitempty"`
}

// Column describes one table column.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// StorageDescriptor describes where and how table data is stored.
type StorageDescriptor struct {
	Location     string            `json:"location,omitempty"`
	InputFormat  string            `json:"input_format,omitempty"`
	OutputFormat string            `json:"output_format,omitempty"`
	SerdeLibrary string            `json:"serde_library,omitempty"`
	SerdeParams  map[string]string `json:"serde_parameters,omitempty"`
}

// Table describes one catalog table.
type Table struct {
	Name          string            `json:"name"`
	Database      string            `json:"database"`
	Owner         string            `json:"owner,omitempty"`
	TableType     string            `json:"table_type,omitempty"`
	Storage       StorageDescriptor `json:"storage"`
	Columns       []Column          `json:"columns"`
	PartitionKeys []Column          `json:"partition_keys,omitempty"`
	Parameters    map[string]string `json:"parameters,omitempty"`
	CreateTime    *time.Time        `json:"create_time,omitempty"`
	UpdateTime    *time.Time        `json:"update_time,omitempty"`
	Retention     int32             `json:"retention,omitempty"`
}
