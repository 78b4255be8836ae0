// Package weather provides a canned weather lookup tool for the demos.
package weather

import (
	"context"
	"fmt"

	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// Input asks for the forecast of a single location.
type Input struct {
	schema.Base
	// Location The location to get weather for
	Location string `json:"location" validate:"required" jsonschema:"title=location,description=The location to get weather for."`
}

func NewInput(location string) *Input {
	return &Input{Location: location}
}

// Output is the canned forecast text.
type Output struct {
	schema.Base
	Report string `json:"report" jsonschema:"title=report,description=Weather report for the requested location."`
}

func (o Output) String() string {
	return o.Report
}

// New returns the weather lookup as a model-callable tool.
func New(opts ...tools.Option) *tools.Func[Input, Output] {
	base := []tools.Option{
		tools.WithTitle("get_weather"),
		tools.WithDescription("Get weather for a location."),
	}
	return tools.NewFunc(run, append(base, opts...)...)
}

func run(ctx context.Context, input *Input) (*Output, error) {
	return &Output{
		Report: fmt.Sprintf("Weather in %s: sunny, 25°C", input.Location),
	}, nil
}
