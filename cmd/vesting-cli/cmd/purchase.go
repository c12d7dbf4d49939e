package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	purchaseBuyer string
	purchaseSol   string
)

// purchaseCmd 申购
var purchaseCmd = &cobra.Command{
	Use:   "purchase <pool-id>",
	Short: "向售卖池申购",
	Long:  `支付 SOL 换取按计划释放的代币额度。金额以 SOL 为单位, 支持小数。`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 提前解析, 给出比服务端 400 更友好的报错
		amount, err := decimal.NewFromString(purchaseSol)
		if err != nil {
			return fmt.Errorf("无效的 SOL 金额 %q: %w", purchaseSol, err)
		}

		return postJSON(fmt.Sprintf("/api/v1/pools/%s/purchase", args[0]), map[string]interface{}{
			"buyer":      purchaseBuyer,
			"amount_sol": amount,
		})
	},
}

func init() {
	purchaseCmd.Flags().StringVar(&purchaseBuyer, "buyer", "", "买家身份 (base58)")
	purchaseCmd.Flags().StringVar(&purchaseSol, "sol", "", "支付金额 (SOL)")
	_ = purchaseCmd.MarkFlagRequired("buyer")
	_ = purchaseCmd.MarkFlagRequired("sol")

	rootCmd.AddCommand(purchaseCmd)
}
