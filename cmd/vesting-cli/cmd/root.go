package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// apiURL 服务端地址, 全局标志
var apiURL string

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "vesting-cli",
	Short: "代币释放池命令行工具",
	Long: `vesting-core 服务的操作工具。
支持创建售卖池、申购、领取代币和提取收益。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "server", "http://localhost:8080", "vesting-server 地址")
}

// postJSON 调用服务端接口并打印响应
func postJSON(path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func getJSON(path string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(apiURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// 缩进输出, 非 JSON 原样打印
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
