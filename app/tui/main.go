package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/obsidian_search/editor"
	"github.com/noelzubin/obsidian_search/search"
	"github.com/noelzubin/obsidian_search/search/bleve_indexer"
	"github.com/noelzubin/obsidian_search/session"
	"github.com/noelzubin/obsidian_search/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugFlag  bool
	logger     *slog.Logger
	logFile    *os.File
)

var rootCmd = &cobra.Command{
	Use:   "obsearch",
	Short: "Search obsidian vaults by keyword or pinyin and jump to the line",
	Long: `obsearch indexes every vault under the configured root and searches note
titles and lines. Selecting a result opens it in Obsidian at that line.

Set the root first with 'obsearch setting <path>'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runTUI,
}

var settingCmd = &cobra.Command{
	Use:   "setting [path]",
	Short: "Show or set the root path of the vaults",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSetting,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Print the results of a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recently modified notes",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", utils.DefaultConfigPath(), "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(settingCmd, searchCmd, recentCmd)
}

// Setup logging to a file, the terminal belongs to the TUI.
func setupLogging(cmd *cobra.Command, _ []string) error {
	homedir, _ := os.UserHomeDir()
	logPath := path.Join(homedir, "/.config/obsidian_search/debug.log")

	l, f, err := openLog(logPath, debugFlag)
	if err != nil {
		return err
	}
	logger, logFile = l, f
	slog.SetDefault(logger)
	return nil
}

// openLog opens the log file at logPath. The caller closes the returned file.
func openLog(logPath string, debug bool) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return nil, nil, err
	}

	f, err := tea.LogToFile(logPath, "debug")
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// read application config and create the session
func newSession() (*session.Controller, *utils.Config, error) {
	settings, err := utils.NewSettings(configPath)
	if err != nil {
		return nil, nil, err
	}

	config, err := settings.Config()
	if err != nil {
		return nil, nil, err
	}

	engine := session.ScanEngine
	if config.Engine == utils.EngineBleve {
		engine = bleve_indexer.NewSearcher
	}

	s := session.New(settings,
		session.WithEngine(engine),
		session.WithLogger(logger),
		session.WithRecentLimit(config.RecentLimit),
		session.WithRebuildOnSearch(config.RebuildOnSearch),
	)
	return s, config, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, config, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	// Create a new bubbletea Model
	m := New(s, config.Opener, logger)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func runSetting(cmd *cobra.Command, args []string) error {
	settings, err := utils.NewSettings(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if root, ok := settings.RootPath(); ok {
			fmt.Fprintf(out, "Obsidian root path is set to: %s\n", root)
			fmt.Fprintln(out, "Pass a new path to change it.")
		} else {
			fmt.Fprintln(out, "Obsidian root path is not set.")
			fmt.Fprintln(out, "Pass the path, e.g. obsearch setting /Users/username/Dropbox/obsidian")
		}
		return nil
	}

	if err := settings.SetRootPath(args[0]); err != nil {
		return err
	}
	root, _ := settings.RootPath()
	logger.Info("root path set", slog.String("root", root), slog.String("config", settings.File()))
	fmt.Fprintf(out, "Obsidian root path is set to: %s\n", root)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, _, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Search(strings.Join(args, " "))
	if err != nil {
		return err
	}
	printResults(cmd.OutOrStdout(), results)
	return nil
}

func runRecent(cmd *cobra.Command, _ []string) error {
	s, _, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Enter()
	if err != nil {
		return err
	}
	printResults(cmd.OutOrStdout(), results)
	return nil
}

// printResults writes one block per result with the link to open it.
func printResults(w io.Writer, results []search.SearchResult) {
	lines := lo.Map(results, func(r search.SearchResult, _ int) string {
		n := Note{r}
		if r.Kind == search.KindNotice {
			return fmt.Sprintf("%s\n  %s", n.Title(), n.Description())
		}
		return fmt.Sprintf("%s\n  %s\n  %s", n.Title(), n.Description(), editor.DeepLink(r))
	})
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
