package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Calculator Tool
// ===================================

type CalculateInput struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
}

type CalculateOutput struct {
	Result float64 `json:"result"`
}

func createCalculateTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCalculate,
			Desc: "Perform one arithmetic operation on two numbers. Use for budget splits, per-day costs, and totals instead of computing in your head.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"operation": {
					Type:     "string",
					Desc:     "One of: add, subtract, multiply, divide.",
					Required: true,
				},
				"a": {
					Type:     "number",
					Desc:     "First operand.",
					Required: true,
				},
				"b": {
					Type:     "number",
					Desc:     "Second operand.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CalculateInput) (*CalculateOutput, error) {
			switch in.Operation {
			case "add":
				return &CalculateOutput{Result: in.A + in.B}, nil
			case "subtract":
				return &CalculateOutput{Result: in.A - in.B}, nil
			case "multiply":
				return &CalculateOutput{Result: in.A * in.B}, nil
			case "divide":
				if in.B == 0 {
					return nil, fmt.Errorf("division by zero")
				}
				return &CalculateOutput{Result: in.A / in.B}, nil
			default:
				return nil, fmt.Errorf("unknown operation %q", in.Operation)
			}
		},
	)
}
