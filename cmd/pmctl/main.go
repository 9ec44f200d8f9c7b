package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-pm/internal/alertdesk"
	"go-pm/internal/features/taxonomy"
	"go-pm/pkg/pmclient"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var rootCmd = &cobra.Command{
	Use:   "pmctl",
	Short: "Project workflow task desk",
	Long: `pmctl lists the workflow alerts waiting on you and lets you act on them.
Completing an alert completes its project workflow step, ticks the matching
line item on the project checklist and tells other desks over the realtime
channel.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PMCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("server", "s", "http://localhost:8080", "API base URL")
	flags.String("token", "", "session token (bearer JWT)")
	flags.String("user-id", "", "your user id")
	flags.String("user-name", "", "your display name")
	flags.String("role", "", "your responsibility role")
	flags.String("locale", "en", "locale used to sort project names")
	flags.Duration("timeout", 15*time.Second, "HTTP request timeout")
	flags.Bool("json", false, "output JSON")
	flags.BoolP("verbose", "v", false, "log pipeline details to stderr")
	for _, name := range []string{"server", "token", "user-id", "user-name", "role", "locale", "timeout", "json", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(taxonomyCmd())
}

func newLogger() *zap.Logger {
	if !viper.GetBool("verbose") {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func newClient() (*pmclient.Client, error) {
	return pmclient.New(
		viper.GetString("server"),
		viper.GetString("token"),
		pmclient.WithTimeout(viper.GetDuration("timeout")),
	)
}

func currentUser() alertdesk.User {
	return alertdesk.User{
		ID:   viper.GetString("user-id"),
		Name: viper.GetString("user-name"),
		Role: taxonomy.Role(viper.GetString("role")),
	}
}

func localeTag() language.Tag {
	tag, err := language.Parse(viper.GetString("locale"))
	if err != nil {
		return language.English
	}
	return tag
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
