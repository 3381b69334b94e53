package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Tool names, referenced from prompts and the tool loop.
const (
	ToolSearchLodging     = "search_lodging"
	ToolSearchAttractions = "search_attractions"
	ToolCalculate         = "calculate"
	ToolConvertCurrency   = "convert_currency"
)

// LodgingTools returns the tool set bound to the lodging capability.
func LodgingTools() []tool.BaseTool {
	return []tool.BaseTool{
		createSearchLodgingTool(),
	}
}

// AttractionTools returns the tool set bound to the attractions capability.
func AttractionTools() []tool.BaseTool {
	return []tool.BaseTool{
		createSearchAttractionsTool(),
	}
}

// BudgetTools returns the tool set bound to the budget capability.
func BudgetTools() []tool.BaseTool {
	return []tool.BaseTool{
		createCalculateTool(),
		createConvertCurrencyTool(),
	}
}

// GetToolInfos collects ToolInfo from the given tools for model binding.
func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ByName indexes invokable tools by their declared name for the tool loop.
func ByName(ctx context.Context, tools []tool.BaseTool) (map[string]tool.InvokableTool, error) {
	byName := make(map[string]tool.InvokableTool, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		inv, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		byName[info.Name] = inv
	}
	return byName, nil
}
