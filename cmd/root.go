// Package cmd implements the command-line interface for soi.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/soi-cli/soi/color"
	"github.com/soi-cli/soi/constant"
	"github.com/soi-cli/soi/display"
	"github.com/soi-cli/soi/engine"
	"github.com/soi-cli/soi/icon"
	"github.com/soi-cli/soi/inhibit"
	"github.com/soi-cli/soi/input"
	"github.com/soi-cli/soi/key"
	"github.com/soi-cli/soi/log"
	"github.com/soi-cli/soi/player"
	"github.com/soi-cli/soi/playlist"
	"github.com/soi-cli/soi/session"
	"github.com/soi-cli/soi/style"
	"github.com/soi-cli/soi/util"
	"github.com/soi-cli/soi/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("engine", "e", "", "Audio backend to play through")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return engine.AvailableBackends(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.PlayerEngine, rootCmd.Flags().Lookup("engine")))

	rootCmd.Flags().BoolP("no-headers", "n", false, "Render the playlist without album header lines")

	// Help is informational output, not a playback run, and leaves a
	// non-zero exit code like every other path that plays nothing.
	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
		osExit(1)
	})
}

// osExit is swapped out in tests.
var osExit = os.Exit

// rootCmd defines the entry point for the soi application.
var rootCmd = &cobra.Command{
	Use:   constant.Soi + " <files or directories>...",
	Short: "A terminal audio player with gapless album playback",
	Long: style.New().Italic(true).Foreground(color.HiPurple).
		Render("soi plays your music files in album order, gaplessly, right in the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			osExit(1)
			return
		}

		if len(args) == 0 {
			handleErr(fmt.Errorf("no files to play\n\n%s", cmd.UsageString()))
		}

		if lo.Must(cmd.Flags().GetBool("no-headers")) {
			viper.Set(key.DisplayAlbumHeaders, false)
		}

		handleErr(play(lo.Map(args, func(arg string, _ int) string {
			return lo.Must(filepath.Abs(arg))
		})))
	},
}

// play wires the whole playback stack together and blocks until the
// playlist ends. Engine teardown is owned by the session; every return
// path below goes through session.Stop.
func play(paths []string) error {
	eng, err := engine.New(viper.GetString(key.PlayerEngine))
	if err != nil {
		return err
	}

	eraser := util.PrintErasable(fmt.Sprintf("%s Reading tags...", icon.Get(icon.Progress)))
	pl, err := playlist.Build(paths)
	eraser()
	if err != nil {
		lo.Must0(eng.Close())
		return fmt.Errorf("%w\n\n%s", err, rootCmd.UsageString())
	}
	log.Infof("playlist built: %s", util.Quantify(pl.Len(), "track", "tracks"))

	if viper.GetBool(key.PlayerInhibitSuspend) {
		release := inhibit.Acquire("Playing music")
		defer release()
	}

	commands, restore, err := input.Listen()
	if err != nil {
		lo.Must0(eng.Close())
		return err
	}
	defer restore()

	sess := session.New(eng)
	defer sess.Stop()

	// SIGTERM goes through the same teardown as the quit key. Ctrl-C
	// arrives as a keystroke while the terminal is raw.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	defer signal.Stop(sigs)

	return player.Run(pl, sess, display.New(), commands, sigs)
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
		osExit(1)
	}
}
