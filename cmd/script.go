package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/anisan-cli/mediapool/color"
	"github.com/anisan-cli/mediapool/distance"
	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/open"
	"github.com/anisan-cli/mediapool/style"
	"github.com/anisan-cli/mediapool/util"
	"github.com/anisan-cli/mediapool/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const scriptExtension = ".lua"

func init() {
	rootCmd.AddCommand(scriptCmd)
}

// scriptCmd groups the commands managing Lua distance scripts.
var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Manage Lua distance scripts",
}

func init() {
	scriptCmd.AddCommand(scriptListCmd)
	scriptListCmd.SetOut(os.Stdout)
}

var scriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scripts in the scripts directory",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range installedScripts() {
			cmd.Println(name)
		}
	},
}

func init() {
	scriptCmd.AddCommand(scriptGenCmd)

	scriptGenCmd.Flags().StringP("name", "n", "", "Name of the new script")
	scriptGenCmd.Flags().BoolP("force", "f", false, "Overwrite an existing script")
	scriptGenCmd.Flags().StringP("edit", "e", "", "Open the new script with this application")
	scriptGenCmd.Flags().Lookup("edit").NoOptDefVal = " "
	lo.Must0(scriptGenCmd.MarkFlagRequired("name"))
}

// scriptGenCmd scaffolds a distance script.
var scriptGenCmd = &cobra.Command{
	Use:     "gen",
	Short:   "Scaffold a new distance script",
	Long:    `Generate a Lua distance script that weighs the cursor distance by media type.`,
	Example: "  mediapool script gen --name weighted",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		name := lo.Must(cmd.Flags().GetString("name"))
		source, err := distance.Scaffold(name, author)
		handleErr(err)

		target := filepath.Join(where.Scripts(), util.SanitizeFilename(name)+scriptExtension)
		exists, err := filesystem.API().Exists(target)
		handleErr(err)

		if exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, use --force to overwrite it", target))
		}

		handleErr(filesystem.API().WriteFile(target, []byte(source), os.ModePerm))
		cmd.Println(target)

		if cmd.Flags().Changed("edit") {
			handleErr(open.StartWith(target, strings.TrimSpace(lo.Must(cmd.Flags().GetString("edit")))))
		}
	},
}

func init() {
	scriptCmd.AddCommand(scriptRemoveCmd)

	scriptRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Script(s) to remove")
	lo.Must0(scriptRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return installedScripts(), cobra.ShellCompDirectiveNoFileComp
	}))
}

var scriptRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove scripts from the scripts directory",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Scripts(), name+scriptExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func installedScripts() []string {
	entries, err := filesystem.API().ReadDir(where.Scripts())
	if err != nil {
		return nil
	}

	return lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		if e.IsDir() || !strings.HasSuffix(e.Name(), scriptExtension) {
			return "", false
		}

		return util.FileStem(e.Name()), true
	})
}
