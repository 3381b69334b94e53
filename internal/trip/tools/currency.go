package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Currency Conversion Tool
// ===================================

type ConvertCurrencyInput struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

type ConvertCurrencyOutput struct {
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
	Rate      float64 `json:"rate"`
	From      string  `json:"from"`
	To        string  `json:"to"`
}

// usdRates holds units of currency per 1 USD. Static snapshot; a live
// deployment swaps this for a rates API behind the same tool.
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 148.0,
	"THB": 34.5,
	"AUD": 1.52,
	"CAD": 1.36,
}

func createConvertCurrencyTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolConvertCurrency,
			Desc: "Convert an amount between two currencies using current rates. Supported: USD, EUR, GBP, JPY, THB, AUD, CAD.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"amount": {
					Type:     "number",
					Desc:     "Amount to convert.",
					Required: true,
				},
				"from": {
					Type:     "string",
					Desc:     "ISO 4217 code of the source currency, e.g. USD.",
					Required: true,
				},
				"to": {
					Type:     "string",
					Desc:     "ISO 4217 code of the target currency, e.g. EUR.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ConvertCurrencyInput) (*ConvertCurrencyOutput, error) {
			from := strings.ToUpper(strings.TrimSpace(in.From))
			to := strings.ToUpper(strings.TrimSpace(in.To))

			fromRate, ok := usdRates[from]
			if !ok {
				return nil, fmt.Errorf("unsupported currency %q", in.From)
			}
			toRate, ok := usdRates[to]
			if !ok {
				return nil, fmt.Errorf("unsupported currency %q", in.To)
			}

			rate := toRate / fromRate
			return &ConvertCurrencyOutput{
				Amount:    in.Amount,
				Converted: in.Amount * rate,
				Rate:      rate,
				From:      from,
				To:        to,
			}, nil
		},
	)
}
