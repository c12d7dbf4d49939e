package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	initAuthority string
	initMint      string
	initAmount    uint64
	initStart     int64
	initEnd       int64
	initTicks     uint64
	initPrice     uint64
)

// initPoolCmd 创建售卖池
var initPoolCmd = &cobra.Command{
	Use:   "init-pool",
	Short: "创建一个新的售卖池",
	Long:  `创建售卖池并把初始代币从管理员持仓划入池托管。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/pools", map[string]interface{}{
			"authority":     initAuthority,
			"token_mint":    initMint,
			"amount":        initAmount,
			"vesting_start": initStart,
			"vesting_end":   initEnd,
			"vesting_ticks": initTicks,
			"price_per_sol": initPrice,
		})
	},
}

// showPoolCmd 查询池详情
var showPoolCmd = &cobra.Command{
	Use:   "show-pool <pool-id>",
	Short: "查询池详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON(fmt.Sprintf("/api/v1/pools/%s", args[0]))
	},
}

func init() {
	initPoolCmd.Flags().StringVar(&initAuthority, "authority", "", "池管理员身份 (base58)")
	initPoolCmd.Flags().StringVar(&initMint, "mint", "", "代币 mint 标识")
	initPoolCmd.Flags().Uint64Var(&initAmount, "amount", 0, "初始存入的代币数量")
	initPoolCmd.Flags().Int64Var(&initStart, "start", 0, "释放开始时间 (unix 秒)")
	initPoolCmd.Flags().Int64Var(&initEnd, "end", 0, "首个周期结束时间 (unix 秒)")
	initPoolCmd.Flags().Uint64Var(&initTicks, "ticks", 0, "释放周期总数")
	initPoolCmd.Flags().Uint64Var(&initPrice, "price", 0, "每 SOL 兑换的代币数")
	_ = initPoolCmd.MarkFlagRequired("authority")
	_ = initPoolCmd.MarkFlagRequired("mint")
	_ = initPoolCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(initPoolCmd)
	rootCmd.AddCommand(showPoolCmd)
}
