package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/tools"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

const defaultMaxToolCalls = 6

// runToolLoop drives a tool-calling conversation to completion: generate,
// execute requested tools, feed results back, repeat until the model answers
// in prose or the call budget runs out. On budget exhaustion the model gets
// one wrap-up notice and its next answer is final, mirroring a graceful
// degradation rather than a hard failure.
func runToolLoop(
	ctx context.Context,
	capability string,
	cm chatModel,
	modelName string,
	set []tool.BaseTool,
	maxCalls int,
	msgs []*schema.Message,
) (*schema.Message, float64, error) {
	if maxCalls <= 0 {
		maxCalls = defaultMaxToolCalls
	}

	byName, err := tools.ByName(ctx, set)
	if err != nil {
		return nil, 0, errx.NewAdapterError(capability, errx.AdapterRefused, err)
	}

	history := msgs
	var totalCost float64
	calls := 0
	idSeq := 0
	wrappedUp := false

	for {
		out, cost, err := generate(ctx, capability, cm, modelName, history)
		totalCost += cost
		if err != nil {
			return nil, totalCost, err
		}

		if len(out.ToolCalls) == 0 || wrappedUp {
			return out, totalCost, nil
		}

		// Some providers omit tool call IDs; synthesize them so the tool
		// results can be correlated.
		for i := range out.ToolCalls {
			if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
				idSeq++
				out.ToolCalls[i].ID = fmt.Sprintf("call_%d", idSeq)
			}
		}
		history = append(history, out)

		for _, tc := range out.ToolCalls {
			calls++
			if calls > maxCalls {
				// Every requested call still needs a function response,
				// even the ones the budget no longer covers.
				history = append(history, schema.ToolMessage(
					`{"error":"tool_call_budget_exhausted","note":"call skipped"}`, tc.ID))
				continue
			}

			name := tc.Function.Name
			inv, ok := byName[name]
			if !ok {
				// Gracefully handle hallucinated or malformed tool calls
				logx.Warn().
					Str("capability", capability).
					Str("tool_name", name).
					Msg("Unknown or invalid tool call; returning fallback result")
				history = append(history, schema.ToolMessage(
					fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), tc.ID))
				continue
			}

			result, err := inv.InvokableRun(ctx, tc.Function.Arguments)
			if err != nil {
				logx.Warn().
					Str("capability", capability).
					Str("tool_name", name).
					Err(err).
					Msg("Tool execution failed; feeding error back to model")
				history = append(history, schema.ToolMessage(
					fmt.Sprintf("{\"error\":%q}", err.Error()), tc.ID))
				continue
			}
			history = append(history, schema.ToolMessage(result, tc.ID))
		}

		if calls > maxCalls {
			logx.Warn().
				Str("capability", capability).
				Int("max_tool_calls", maxCalls).
				Msg("Tool call limit exceeded; requesting wrap-up")
			history = append(history, schema.SystemMessage(fmt.Sprintf(
				"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
					"Please synthesize a final answer using the information you've already gathered.",
				maxCalls)))
			wrappedUp = true
		}
	}
}
