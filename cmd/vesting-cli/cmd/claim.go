package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	claimBuyer  string
	claimCaller string
)

// claimTokensCmd 买家领取已释放的代币
var claimTokensCmd = &cobra.Command{
	Use:   "claim-tokens <pool-id>",
	Short: "领取已释放的代币",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON(fmt.Sprintf("/api/v1/pools/%s/claim-tokens", args[0]), map[string]interface{}{
			"buyer": claimBuyer,
		})
	},
}

// claimProceedsCmd 池管理员提取收益
var claimProceedsCmd = &cobra.Command{
	Use:   "claim-proceeds <pool-id>",
	Short: "提取池收益 (仅池管理员)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON(fmt.Sprintf("/api/v1/pools/%s/claim-proceeds", args[0]), map[string]interface{}{
			"caller": claimCaller,
		})
	},
}

// showAccountCmd 查询买家账户
var showAccountCmd = &cobra.Command{
	Use:   "show-account <pool-id> <buyer>",
	Short: "查询买家在某池的账户",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON(fmt.Sprintf("/api/v1/pools/%s/accounts/%s", args[0], args[1]))
	},
}

func init() {
	claimTokensCmd.Flags().StringVar(&claimBuyer, "buyer", "", "买家身份 (base58)")
	_ = claimTokensCmd.MarkFlagRequired("buyer")

	claimProceedsCmd.Flags().StringVar(&claimCaller, "caller", "", "调用者身份 (必须是池管理员)")
	_ = claimProceedsCmd.MarkFlagRequired("caller")

	rootCmd.AddCommand(claimTokensCmd)
	rootCmd.AddCommand(claimProceedsCmd)
	rootCmd.AddCommand(showAccountCmd)
}
