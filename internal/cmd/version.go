package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version 由构建时 -ldflags 注入。
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本号",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shoprec", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
