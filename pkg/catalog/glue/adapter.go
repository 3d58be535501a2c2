// Package glue provides a Glue Data Catalog implementation of the
// catalog provider.
package glue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	gluesdk "github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/txn2/mcp-athena/pkg/athena/awsathena"
	"github.com/txn2/mcp-athena/pkg/catalog"
)

const (
	defaultTableLimit = 100
	maxTableLimit     = 1000
)

// GlueClient defines the Glue SDK operations used by the adapter.
// This interface allows for mocking in tests.
type GlueClient interface {
	GetDatabases(ctx context.Context, params *gluesdk.GetDatabasesInput, optFns ...func(*gluesdk.Options)) (*gluesdk.GetDatabasesOutput, error)
	GetTables(ctx context.Context, params *gluesdk.GetTablesInput, optFns ...func(*gluesdk.Options)) (*gluesdk.GetTablesOutput, error)
	GetTable(ctx context.Context, params *gluesdk.GetTableInput, optFns ...func(*gluesdk.Options)) (*gluesdk.GetTableOutput, error)
}

// Adapter implements catalog.Provider using the Glue Data Catalog.
type Adapter struct {
	client GlueClient
}

// New creates a new Glue adapter with an existing client.
func New(client GlueClient) (*Adapter, error) {
	if client == nil {
		return nil, fmt.Errorf("glue client is required")
	}
	return &Adapter{client: client}, nil
}

// NewFromConfig creates a new Glue adapter with a new SDK client from
// AWS configuration.
func NewFromConfig(ctx context.Context, cfg awsathena.Config) (*Adapter, error) {
	awsCfg, err := awsathena.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: gluesdk.NewFromConfig(awsCfg)}, nil
}

// Name returns the provider name.
func (*Adapter) Name() string {
	return "glue"
}

// ListDatabases returns all databases with a per-database table count.
// A failed count is recorded as zero rather than failing the listing.
func (a *Adapter) ListDatabases(ctx context.Context) ([]catalog.Database, error) {
	out, err := a.client.GetDatabases(ctx, &gluesdk.GetDatabasesInput{})
	if err != nil {
		return nil, fmt.Errorf("getting databases: %w", err)
	}

	databases := make([]catalog.Database, 0, len(out.DatabaseList))
	for _, db := range out.DatabaseList {
		name := aws.ToString(db.Name)
		databases = append(databases, catalog.Database{
			Name:        name,
			Description: aws.ToString(db.Description),
			LocationURI: aws.ToString(db.LocationUri),
			Parameters:  db.Parameters,
			TableCount:  a.countTables(ctx, name),
			CreateTime:  db.CreateTime,
		})
	}
	return databases, nil
}

// countTables returns the table count for a database, or zero when the
// lookup fails.
func (a *Adapter) countTables(ctx context.Context, database string) int {
	out, err := a.client.GetTables(ctx, &gluesdk.GetTablesInput{
		DatabaseName: aws.String(database),
	})
	if err != nil {
		return 0
	}
	return len(out.TableList)
}

// ListTables returns up to limit tables in a database.
func (a *Adapter) ListTables(ctx context.Context, database string, limit int) ([]catalog.Table, error) {
	if limit <= 0 {
		limit = defaultTableLimit
	}
	if limit > maxTableLimit {
		limit = maxTableLimit
	}

	out, err := a.client.GetTables(ctx, &gluesdk.GetTablesInput{
		DatabaseName: aws.String(database),
	})
	if err != nil {
		return nil, fmt.Errorf("getting tables for %s: %w", database, err)
	}

	list := out.TableList
	if len(list) > limit {
		list = list[:limit]
	}

	tables := make([]catalog.Table, 0, len(list))
	for i := range list {
		tables = append(tables, mapTable(&list[i]))
	}
	return tables, nil
}

// GetTable returns detailed metadata for one table.
func (a *Adapter) GetTable(ctx context.Context, database, table string) (*catalog.Table, error) {
	out, err := a.client.GetTable(ctx, &gluesdk.GetTableInput{
		DatabaseName: aws.String(database),
		Name:         aws.String(table),
	})
	if err != nil {
		return nil, fmt.Errorf("getting table %s.%s: %w", database, table, err)
	}
	if out.Table == nil {
		return nil, fmt.Errorf("table %s.%s not found", database, table)
	}

	mapped := mapTable(out.Table)
	return &mapped, nil
}

// mapTable converts a Glue table into the provider-neutral shape.
func mapTable(t *gluetypes.Table) catalog.Table {
	table := catalog.Table{
		Name:       aws.ToString(t.Name),
		Database:   aws.ToString(t.DatabaseName),
		Owner:      aws.ToString(t.Owner),
		TableType:  aws.ToString(t.TableType),
		Parameters: t.Parameters,
		CreateTime: t.CreateTime,
		UpdateTime: t.UpdateTime,
		Retention:  t.Retention,
		Columns:    []catalog.Column{},
	}

	for _, col := range t.PartitionKeys {
		table.PartitionKeys = append(table.PartitionKeys, mapColumn(col))
	}

	if sd := t.StorageDescriptor; sd != nil {
		table.Storage = catalog.StorageDescriptor{
			Location:     aws.ToString(sd.Location),
			InputFormat:  aws.ToString(sd.InputFormat),
			OutputFormat: aws.ToString(sd.OutputFormat),
		}
		if serde := sd.SerdeInfo; serde != nil {
			table.Storage.SerdeLibrary = aws.ToString(serde.SerializationLibrary)
			table.Storage.SerdeParams = serde.Parameters
		}
		for _, col := range sd.Columns {
			table.Columns = append(table.Columns, mapColumn(col))
		}
	}
	return table
}

func mapColumn(col gluetypes.Column) catalog.Column {
	return catalog.Column{
		Name:    aws.ToString(col.Name),
		Type:    aws.ToString(col.Type),
		Comment: aws.ToString(col.Comment),
	}
}

// Close releases resources.
func (*Adapter) Close() error {
	return nil
}

// Verify interface compliance.
var _ catalog.Provider = (*Adapter)(nil)
