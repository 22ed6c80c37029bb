package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/api"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/config"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/engine"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/game"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/server"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/session"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/simulate"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
)

var (
	mode         = flag.String("mode", getEnvOrDefault("MODE", "api"), "One of api, client, simulate or interactive")
	configPath   = flag.String("config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file")
	port         = flag.String("port", os.Getenv("PORT"), "Port to host the server on")
	apiURL       = flag.String("apiURL", os.Getenv("API_URL"), "Base URL of the AI service")
	frontendHost = flag.String("frontendHost", os.Getenv("FRONTEND_HOST"), "The frontend host")
	games        = flag.Int("games", 0, "Number of games to simulate")
	remote       = flag.Bool("remote", false, "Simulate against the AI service at apiURL instead of a local engine")
	symbol       = flag.String("symbol", "X", "Your symbol in interactive mode, X moves first")
)

// getEnvOrDefault tries to get an Environment variable or returns a default
// if it doesn't exist
func getEnvOrDefault(key, def string) string {
	if env, ok := os.LookupEnv(key); ok {
		return env
	}
	return def
}

// applyFlags overrides config values with any flags that were set.
func applyFlags(c *config.Config) {
	if *port != "" {
		c.API.Port = *port
		c.Client.Port = *port
	}
	if *apiURL != "" {
		c.Client.APIURL = *apiURL
	}
	if *frontendHost != "" {
		c.Client.FrontendHost = *frontendHost
	}
	if *games > 0 {
		c.Simulation.Games = *games
	}
}

func newEngine(log *zap.Logger, c *config.Config) *engine.Engine {
	opts := []engine.Option{engine.WithLogger(log)}
	if c.Simulation.Seed != 0 {
		opts = append(opts, engine.WithSeed(c.Simulation.Seed))
	}
	return engine.New(opts...)
}

func main() {
	flag.Parse()

	c, err := config.ParseConfig(*configPath)
	if err != nil {
		panic(err)
	}
	applyFlags(c)

	log, err := c.Log.NewLogger()
	if err != nil {
		panic(fmt.Sprintf("Unable to build logger: %s", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, c); err != nil {
		log.Fatal("Exited with error", zap.String("mode", *mode), zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger, c *config.Config) error {
	switch *mode {
	case "api":
		svc := api.NewService(log, newEngine(log, c))
		log.Info(fmt.Sprintf("Starting AI service on port %s", c.API.Port))
		return http.ListenAndServe(":"+c.API.Port, api.NewRouter(log, svc, c.API.AllowedOrigin))

	case "client":
		predictor := api.NewClient(log, c.Client.APIURL, c.Client.Timeout)
		store := session.NewStore(log, predictor)
		s := server.NewServer(log, store, server.OriginChecker(c.Client.FrontendHost))
		return s.Start(c.Client.Port)

	case "simulate":
		var ai game.Player = game.NewMinimaxPlayer(newEngine(log, c))
		if *remote {
			ai = game.NewPredictorPlayer(api.NewClient(log, c.Client.APIURL, c.Client.Timeout))
		}
		opponent := game.NewRandomPlayer(engine.FastRandomizer())
		if c.Simulation.Seed != 0 {
			opponent = game.NewRandomPlayer(engine.SeededRandomizer(c.Simulation.Seed + 1))
		}
		summary, err := simulate.Run(ctx, simulate.Options{
			Games:    c.Simulation.Games,
			Workers:  c.Simulation.Workers,
			AI:       ai,
			Opponent: opponent,
			Log:      log,
		})
		if err != nil {
			return err
		}
		fmt.Println(summary)
		return nil

	case "interactive":
		eng := newEngine(log, c)
		sess := session.New(log, api.NewService(log, eng))
		return runInteractive(ctx, os.Stdin, termenv.NewOutput(os.Stdout), sess, eng, *symbol)

	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}
