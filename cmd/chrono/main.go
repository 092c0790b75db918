// Package main provides the command line client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	apiconnect "github.com/youtube-chrono/chrono/internal/api/connect"
	"github.com/youtube-chrono/chrono/internal/api/web"
	"github.com/youtube-chrono/chrono/internal/app/session"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/infra/config"
	"github.com/youtube-chrono/chrono/internal/infra/logger"
)

var (
	app     = kingpin.New("chrono", "YouTube Chrono playlist length calculator")
	verbose = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	asJSON  = app.Flag("json", "Print results as JSON").Bool()

	// calc command
	calcCmd    = app.Command("calc", "Calculate a playlist's length locally")
	calcConfig = calcCmd.Flag("config", "Path to config file").Default("config/server.yaml").String()
	calcURL    = calcCmd.Arg("url", "Playlist URL").Required().String()

	// query command
	queryCmd    = app.Command("query", "Calculate a playlist's length on a server")
	queryServer = queryCmd.Flag("server", "Server address").Default("http://localhost:8080").String()
	queryToken  = queryCmd.Flag("token", "API token").Envar("CHRONO_API_TOKEN").String()
	queryURL    = queryCmd.Arg("url", "Playlist URL").Required().String()

	// state command
	stateCmd    = app.Command("state", "Show the server's current state")
	stateServer = stateCmd.Flag("server", "Server address").Default("http://localhost:8080").String()
	stateToken  = stateCmd.Flag("token", "API token").Envar("CHRONO_API_TOKEN").String()

	// watch command
	watchCmd    = app.Command("watch", "Stream toasts from a server")
	watchServer = watchCmd.Flag("server", "Server address").Default("http://localhost:8080").String()
	watchToken  = watchCmd.Flag("token", "API token").Envar("CHRONO_API_TOKEN").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Level: "warn", Verbose: *verbose}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case calcCmd.FullCommand():
		calc(ctx, *calcConfig, *calcURL)
	case queryCmd.FullCommand():
		query(ctx, newClient(*queryServer, *queryToken), *queryURL)
	case stateCmd.FullCommand():
		showState(ctx, newClient(*stateServer, *stateToken))
	case watchCmd.FullCommand():
		watch(ctx, newClient(*watchServer, *watchToken))
	}
}

func newClient(server, token string) *apiconnect.DurationClient {
	return apiconnect.NewDurationClient(http.DefaultClient, server, apiconnect.WithToken(token))
}

// loadConfig loads path, falling back to defaults and environment variables
// when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	zlog.Debug().Msgf("config file %s not found, using defaults", path)
	return config.Default()
}

func calc(ctx context.Context, configPath, url string) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	mgr, err := session.NewManagerFromConfig(ctx, cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	summary, err := mgr.Submit(ctx, url)
	if err != nil {
		fmt.Printf("Error [%s]: %s\n", playlist.KindOf(err).Code(), mgr.Message(err))
		zlog.Debug().Msgf("calculation failed: %v", err)
		os.Exit(1)
	}
	printSummary(summary)
}

func query(ctx context.Context, client *apiconnect.DurationClient, url string) {
	st, err := client.Aggregate(ctx, url)
	if err != nil {
		exitWithRPCError(err)
	}
	printSummary(apiconnect.SummaryFromStruct(st))
}

func showState(ctx context.Context, client *apiconnect.DurationClient) {
	st, err := client.GetState(ctx)
	if err != nil {
		exitWithRPCError(err)
	}

	if *asJSON {
		printJSON(st.AsMap())
		return
	}

	fields := st.GetFields()
	fmt.Printf("Phase: %s\n", fields["phase"].GetStringValue())
	if input := fields["input"].GetStringValue(); input != "" {
		fmt.Printf("Input: %s\n", input)
	}
	if msg := fields["message"].GetStringValue(); msg != "" {
		fmt.Printf("Message: %s\n", msg)
	}
	if s := fields["summary"].GetStructValue(); s != nil {
		fmt.Println()
		printSummary(apiconnect.SummaryFromStruct(s))
	}
}

func watch(ctx context.Context, client *apiconnect.DurationClient) {
	stream, err := client.WatchToasts(ctx)
	if err != nil {
		exitWithRPCError(err)
	}
	defer stream.Close()

	fmt.Println("Watching toasts (Ctrl+C to stop)...")
	for stream.Receive() {
		fields := stream.Msg().GetFields()
		if *asJSON {
			printJSON(stream.Msg().AsMap())
			continue
		}
		fmt.Printf("[%s] %s: %s\n",
			fields["created_at"].GetStringValue(),
			fields["type"].GetStringValue(),
			fields["message"].GetStringValue())
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		exitWithRPCError(err)
	}
}

func printSummary(s *playlist.Summary) {
	if *asJSON {
		printJSON(web.SummaryToResponse(s))
		return
	}

	fmt.Printf("Playlist: %s\n", s.Title)
	fmt.Printf("Creator:  %s\n", s.Creator)
	fmt.Printf("Videos:   %d (%s)\n", s.VideoCount, s.Range())
	if s.Unavailable > 0 || s.Excluded > 0 || s.Unresolved > 0 {
		fmt.Printf("Skipped:  %d unavailable, %d excluded, %d without duration\n", s.Unavailable, s.Excluded, s.Unresolved)
	}
	fmt.Printf("Total:    %s (%s)\n", s.Total, s.TotalCompact)
	fmt.Printf("Average:  %s\n", s.Average)
	fmt.Println()
	fmt.Println("At different speeds:")
	for _, m := range playlist.Multipliers {
		fmt.Printf("  %s  %s\n", m.Label, s.Speeds[m.Label])
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func exitWithRPCError(err error) {
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		if code := cerr.Meta().Get(apiconnect.ErrorCodeKey); code != "" {
			fmt.Printf("Error [%s]: %s\n", code, cerr.Message())
			os.Exit(1)
		}
	}
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
