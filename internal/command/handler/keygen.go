package handler

import (
	"intake/utils/secrets"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type KeygenHandler struct {
	logger *zap.Logger
}

func NewKeygenHandler(logger *zap.Logger) *KeygenHandler {
	return &KeygenHandler{
		logger: logger,
	}
}

// Generate 產生一組 webhook key 與對應雜湊。
// 明文只在終端顯示一次；設定檔與管理端只需要雜湊。
func (handler *KeygenHandler) Generate(cmd *cobra.Command, args []string) {
	key, err := secrets.GenerateKey(32)
	if err != nil {
		pterm.Error.Printfln("generate key failed: %v", err)
		return
	}

	pterm.DefaultSection.Println("Webhook Credential")
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Key", key},
		{"SHA-256", secrets.HashKey(key)},
	}).Render()
	pterm.Info.Println("把 Key 放入 gate.credential.keys（或管理端 PUT /admin/settings）後生效")
}
