// Package database provides canned database query tools for the handoff demo.
// Responses are fixtures; no real database is involved.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// QueryInput carries the SQL to "execute".
type QueryInput struct {
	schema.Base
	// Query SQL query to execute
	Query string `json:"query" validate:"required" jsonschema:"title=query,description=SQL query to execute."`
}

// QueryOutput is the canned result set summary.
type QueryOutput struct {
	schema.Base
	Results string `json:"results" jsonschema:"title=results,description=Query result summary."`
}

func (o QueryOutput) String() string {
	return o.Results
}

// NewQuery returns the query tool.
func NewQuery(opts ...tools.Option) *tools.Func[QueryInput, QueryOutput] {
	base := []tools.Option{
		tools.WithTitle("query_database"),
		tools.WithDescription("Execute a SQL query against the database."),
	}
	return tools.NewFunc(runQuery, append(base, opts...)...)
}

func runQuery(ctx context.Context, input *QueryInput) (*QueryOutput, error) {
	q := strings.ToLower(input.Query)
	var results string
	switch {
	case strings.Contains(q, "sales"):
		results = "Query Results: Total Sales: $125,000 | Top Product: Widget Pro | Orders: 450"
	case strings.Contains(q, "customer"):
		results = "Query Results: Total Customers: 1,250 | Active: 980 | Churn Rate: 5.2%"
	case strings.Contains(q, "inventory"):
		results = "Query Results: Items in Stock: 3,450 | Low Stock Alerts: 12 | Warehouse: 85% capacity"
	default:
		results = fmt.Sprintf("Query executed: %s | Status: Success | Rows: 42", input.Query)
	}
	return &QueryOutput{Results: results}, nil
}

// SchemaInput optionally names the table to describe.
type SchemaInput struct {
	schema.Base
	// TableName Name of the database table
	TableName string `json:"table_name,omitempty" jsonschema:"title=table_name,description=Name of the database table."`
}

// SchemaOutput is the canned schema description.
type SchemaOutput struct {
	schema.Base
	Schema string `json:"schema" jsonschema:"title=schema,description=Schema information."`
}

func (o SchemaOutput) String() string {
	return o.Schema
}

// NewSchema returns the schema lookup tool.
func NewSchema(opts ...tools.Option) *tools.Func[SchemaInput, SchemaOutput] {
	base := []tools.Option{
		tools.WithTitle("get_database_schema"),
		tools.WithDescription("Get database schema information for tables."),
	}
	return tools.NewFunc(runSchema, append(base, opts...)...)
}

func runSchema(ctx context.Context, input *SchemaInput) (*SchemaOutput, error) {
	if input.TableName != "" {
		return &SchemaOutput{
			Schema: fmt.Sprintf("Schema for %s: id (INT), name (VARCHAR), created_at (TIMESTAMP), status (VARCHAR)", input.TableName),
		}, nil
	}
	return &SchemaOutput{
		Schema: "Available tables: customers, orders, products, inventory, sales_analytics",
	}, nil
}
