package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTable         = "local_kv"
	llmRequestTable = "llm_requests"
)

var (
	// LocalKvColumns holds the columns for the "local_kv" table.
	LocalKvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LocalKvTable holds the schema information for the "local_kv" table.
	LocalKvTable = &schema.Table{
		Name:       kvTable,
		Columns:    LocalKvColumns,
		PrimaryKey: []*schema.Column{LocalKvColumns[0]},
	}

	// LlmRequestsColumns holds the columns for the "llm_requests" table.
	LlmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
	}
	// LlmRequestsTable holds the schema information for the "llm_requests" table.
	LlmRequestsTable = &schema.Table{
		Name:       llmRequestTable,
		Columns:    LlmRequestsColumns,
		PrimaryKey: []*schema.Column{LlmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequest_created_at",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestsColumns[1]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LocalKvTable,
		LlmRequestsTable,
	}
)

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
