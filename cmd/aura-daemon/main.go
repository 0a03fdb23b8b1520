package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aura/internal/assistant"
	"aura/internal/audio"
	"aura/internal/ipc"
	"aura/internal/notify"
	"aura/internal/proxy"
	"aura/internal/stt"
	"aura/internal/tools"
	"aura/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (empty for direct)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	chatModel := cli.StringP("model", "m", "gpt-4o", "Chat model")
	language := cli.String("lang", "en", "Transcription language hint")
	whisperModel := cli.String("whisper", "", "Path to a local whisper.cpp model (empty uses the hosted API)")
	chimePath := cli.String("chime", "beep.mp3", "Listen-start chime")
	femaleVoice := cli.Bool("female-voice", true, "Prefer a female voice")
	voiceRate := cli.Float64("voice-rate", 0.75, "Voice speed multiplier [0.5, 1.5]")
	voiceVolume := cli.Float64("voice-volume", 0.9, "Voice volume [0.1, 1.0]")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	log.Debug("Loaded API key")

	httpClient, err := proxy.NewHTTPClient(*proxyAddr)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
		os.Exit(1)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	var transcriber stt.Transcriber
	if *whisperModel != "" {
		transcriber, err = stt.NewLocal(*whisperModel)
		if err != nil {
			log.Error("Failed to init whisper", "err", err)
			os.Exit(1)
		}
	} else {
		transcriber = stt.NewRemote(client)
	}
	defer transcriber.Close()

	log.Debug("Loaded transcriber")

	registry := tools.NewRegistry(
		tools.NewCalendar(),
		tools.NewOutbox(),
		tools.NewSearcher(httpClient),
	)
	session := assistant.NewSession(assistant.Config{
		Completions: &client.Chat.Completions,
		Model:       openai.ChatModel(*chatModel),
		Registry:    registry,
	})

	speaker := tts.NewSpeaker(tts.Options{
		Language:    *language,
		FemaleVoice: *femaleVoice,
		Rate:        *voiceRate,
		Volume:      *voiceVolume,
	}, audio.NewDucker([]string{"aura"}, 20))

	log.Info("Boot up - successful")

	if err := ipc.StartServer(func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "trigger":
			handleTrigger(rec, transcriber, session, speaker, *chimePath, *language)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	select {}
}

func handleTrigger(rec *audio.Recorder, tr stt.Transcriber, session *assistant.Session, speaker *tts.Speaker, chime, language string) {
	if err := notify.Chime(chime); err != nil {
		log.Warn("Failed to play chime", "err", err)
	}

	log.Info("Starting listening")

	pcm, err := rec.RecordAuto()
	if err != nil {
		log.Error("Failed to record", "err", err)
		return
	}

	log.Info("Recorded", "samples", len(pcm))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	text, err := tr.Transcribe(ctx, pcm, language)
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		return
	}

	log.Info("Transcribed", "text", text)

	reply := session.Respond(ctx, text)

	log.Info("──────── AURA ────────")
	log.Info(reply)
	log.Info("──────────────────────")

	speaker.Say(reply)
}
