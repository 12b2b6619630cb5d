// Package cmd implements the mediapool command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/anisan-cli/mediapool/color"
	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/player"
	"github.com/anisan-cli/mediapool/style"
	"github.com/anisan-cli/mediapool/util"
	"github.com/anisan-cli/mediapool/version"
	"github.com/anisan-cli/mediapool/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("player", "P", "", "Engine backend backing the pool")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Backends(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.PersistentFlags().Lookup("player")))

	rootCmd.PersistentFlags().String("mpv", "", "Path to the mpv executable")
	lo.Must0(viper.BindPFlag(key.PlayerMpvPath, rootCmd.PersistentFlags().Lookup("mpv")))

	rootCmd.PersistentFlags().StringP("distance", "D", "", "Lua script computing item distances")
	lo.Must0(viper.BindPFlag(key.DistanceScript, rootCmd.PersistentFlags().Lookup("distance")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the mediapool application.
var rootCmd = &cobra.Command{
	Use:   constant.Mediapool,
	Short: "Share a fixed set of media engines between any number of media items",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Share a fixed set of media engines between any number of media items"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
