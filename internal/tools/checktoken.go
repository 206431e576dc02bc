package tools

import (
	"fmt"
	"os"

	"finlab-mcp/internal/finlab"
)

const descCheckAPIToken = `檢查 FINLAB_API_TOKEN 是否已設置。

如果未設置，會提示用戶如何獲取和設置 token。
Token 可從 https://ai.finlab.tw/api_token/ 取得。
`

// CheckTokenInput is empty: the token check takes no arguments.
type CheckTokenInput struct{}

const tokenSetupInstructions = `❌ FINLAB_API_TOKEN 未設置

請按照以下步驟設置：

1. 前往 https://ai.finlab.tw/api_token/ 取得您的 API token
2. 設置環境變數：

   # 臨時設置（當前終端）
   export FINLAB_API_TOKEN="your_token_here"

   # 永久設置（加入 shell 配置）
   echo 'export FINLAB_API_TOKEN="your_token_here"' >> ~/.zshrc
   source ~/.zshrc

3. 重新啟動 MCP 服務器
`

// checkAPIToken reports whether the FinLab API token is configured. Only
// the token's length is ever echoed, never its value.
func (d *Dispatcher) checkAPIToken() (string, error) {
	token := os.Getenv(finlab.TokenEnv)
	if token == "" {
		return tokenSetupInstructions, nil
	}
	return fmt.Sprintf("✅ FINLAB_API_TOKEN 已設置 (長度: %d 字元)", len(token)), nil
}
