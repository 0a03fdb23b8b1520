package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aura/internal/assistant"
	"aura/internal/proxy"
	"aura/internal/stt"
	"aura/internal/tools"
	"aura/internal/web"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	addr := cli.StringP("addr", "a", ":8092", "Listen address")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (empty for direct)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	chatModel := cli.StringP("model", "m", "gpt-4o", "Chat model")
	language := cli.String("lang", "en", "Transcription language hint")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Starting Aura web gateway")

	godotenv.Load(*envFile)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	httpClient, err := proxy.NewHTTPClient(*proxyAddr)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
		os.Exit(1)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)

	newSession := func() web.Responder {
		registry := tools.NewRegistry(
			tools.NewCalendar(),
			tools.NewOutbox(),
			tools.NewSearcher(httpClient),
		)
		return assistant.NewSession(assistant.Config{
			Completions: &client.Chat.Completions,
			Model:       openai.ChatModel(*chatModel),
			Registry:    registry,
		})
	}

	server := web.NewServer(newSession, stt.NewRemote(client), *language)

	http.Handle("/ws", server)
	log.Info("Listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}
