package main

import (
	"fmt"
)

// 程序信息常量
const (
	AppName    = "timeblock"
	AppVersion = "0.1.0"
	AppDesc    = "显示当天日程中正在进行的一项及其前后项的终端时间表"
)

// printUsageInstructions 显示TUI操作说明
func printUsageInstructions() {
	fmt.Println("操作说明:")
	fmt.Println("  ←/→ 方向键  - 切换到前一天/后一天")
	fmt.Println("  t           - 回到今天")
	fmt.Println("  r           - 重新加载当天的时间表")
	fmt.Println("  q 或 Ctrl+C - 退出程序")
	fmt.Println("========================================")
}
