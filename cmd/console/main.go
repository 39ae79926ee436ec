package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/internal/config"
	"github.com/athena-gateway/console/routing"
	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
	"github.com/athena-gateway/console/tui"
)

const version = "0.1.0"

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n", r)
			debug.PrintStack()
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Admin console for the Athena API gateway",
		Long: `Interactive terminal console for administering a multi-tenant API
gateway: projects, proxy routes, membership and two-factor auth.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL != "" {
				os.Setenv("ATHENA_API_URL", apiURL)
			}
			return run()
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "", "gateway API base URL (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the console version",
		Run: func(cmd *cobra.Command, args []string) {
			displayAppname("athena console")
			fmt.Println(version)
		},
	})

	return cmd
}

func run() error {
	cfg := config.New()

	logFile, err := setupLogging(cfg.GetLogFile())
	if err != nil {
		return fmt.Errorf("setupLogging: %w", err)
	}
	defer logFile.Close()

	scopes := scope.New()
	sessions := session.New(session.NewFileStorage(cfg.GetTokenDir()), scopes)
	client := api.New(cfg.GetAPIBaseURL(), sessions, scopes,
		api.WithTimeout(time.Duration(cfg.GetRequestTimeoutSeconds())*time.Second))

	deps := tui.Deps{API: client, Sessions: sessions, Scopes: scopes}

	// The navigator needs the program to post screens and the program needs
	// the navigator in its model, so the render callback closes over a
	// variable assigned after construction. Navigation only starts from the
	// app's Init, once the program is running.
	var program *tea.Program
	nav := routing.NewNavigator(routing.NewTable(routing.DefaultRoutes()...), sessions,
		func(screen routing.Screen, param string) {
			program.Send(tui.NavigateMsg{Screen: screen, Param: param})
		})
	deps.Nav = nav

	program = tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())

	log.Info().Str("api_url", cfg.GetAPIBaseURL()).Msg("console starting")
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program.Run: %w", err)
	}
	log.Info().Msg("console stopped")
	return nil
}

// setupLogging sends structured logs to a file. The TUI owns the terminal,
// so nothing may write to stdout or stderr while it runs.
func setupLogging(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(file).With().Timestamp().Logger()
	return file, nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
