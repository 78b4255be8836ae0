// Package tip provides a bill tip calculation tool for the demos.
package tip

import (
	"context"
	"fmt"

	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// Input holds the bill to tip on.
type Input struct {
	schema.Base
	// BillAmount The total bill amount
	BillAmount float64 `json:"bill_amount" validate:"required" jsonschema:"title=bill_amount,description=The total bill amount."`
	// TipPercentage Tip percentage (e.g. 15 for 15%)
	TipPercentage float64 `json:"tip_percentage,omitempty" jsonschema:"title=tip_percentage,description=Tip percentage (e.g. 15 for 15%)."`
}

// Output is the formatted tip summary.
type Output struct {
	schema.Base
	Summary string `json:"summary" jsonschema:"title=summary,description=Tip and total for the bill."`
}

func (o Output) String() string {
	return o.Summary
}

// New returns the tip calculator as a model-callable tool.
func New(opts ...tools.Option) *tools.Func[Input, Output] {
	base := []tools.Option{
		tools.WithTitle("calculate_tip"),
		tools.WithDescription("Calculate tip amount for a bill."),
	}
	return tools.NewFunc(run, append(base, opts...)...)
}

func run(ctx context.Context, input *Input) (*Output, error) {
	pct := input.TipPercentage
	if pct == 0 {
		pct = 15
	}
	tip := input.BillAmount * (pct / 100)
	total := input.BillAmount + tip
	return &Output{
		Summary: fmt.Sprintf("Tip: $%.2f, Total: $%.2f", tip, total),
	}, nil
}
