package calculator

import (
	"context"
	"math"

	"github.com/Knetic/govaluate"

	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// Input Tool for performing calculations. Supports basic arithmetic operations
// like addition, subtraction, multiplication, and division, as well as more
// complex operations like exponentiation and trigonometric functions.
type Input struct {
	schema.Base
	// Expression Mathematical expression to evaluate. For example, '2 + 2'.
	Expression string `json:"expression" jsonschema:"title=expression,description=Mathematical expression to evaluate. For example, '2 + 2'."`
	// Params represents expression's parameters
	Params map[string]interface{} `json:"params,omitempty" jsonschema:"title=params,description=Parameters for the expression."`
}

func NewInput(exp string, params map[string]interface{}) *Input {
	return &Input{
		Expression: exp,
		Params:     params,
	}
}

// Output Schema for the output of the CalculatorTool
type Output struct {
	schema.Base
	// Result Result of the calculation
	Result interface{} `json:"result,omitempty" jsonschema:"title=result,description=Result of the calculation."`
}

func NewOutput(result interface{}) *Output {
	return &Output{
		Result: result,
	}
}

// expFunctions are callables available inside expressions.
var expFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"log":  unary(math.Log),
	"log2": unary(math.Log2),
	"exp":  unary(math.Exp),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, errArgCount("pow", 2, len(args))
		}
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(x, y), nil
	},
}

type Tool struct {
	tools.Config
}

func New(opts ...tools.Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("CalculatorTool")
	}
	if ret.Description() == "" {
		ret.SetDescription("Evaluate a mathematical expression and return the result.")
	}
	return ret
}

// Run executes the CalculatorTool with the given parameters.
func (t *Tool) Run(ctx context.Context, input *Input) (*Output, error) {
	exp, err := govaluate.NewEvaluableExpressionWithFunctions(input.Expression, expFunctions)
	if err != nil {
		return nil, err
	}
	params := make(map[string]interface{}, len(input.Params)+len(constParams))
	for k, v := range input.Params {
		params[k] = v
	}
	for k, v := range constParams {
		if _, ok := params[k]; ok {
			continue
		}
		params[k] = v
	}
	result, err := exp.Evaluate(params)
	if err != nil {
		return nil, err
	}
	return NewOutput(result), nil
}

func (t *Tool) RunAnonymous(ctx context.Context, input any) (any, error) {
	in, ok := input.(*Input)
	if !ok {
		return nil, errInvalidInput
	}
	return t.Run(ctx, in)
}
