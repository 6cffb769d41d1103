package tool

import contractx "github.com/tanakrit-w/giftwise/agent/contract"

func toolSuccess(tool string, result any) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Result: result}
}

func toolFailure(tool string, message string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: message}
}
