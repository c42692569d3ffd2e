package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yhinai/clippy/internal/agent"
	"github.com/yhinai/clippy/internal/config"
	"github.com/yhinai/clippy/internal/llm"
	"github.com/yhinai/clippy/internal/logging"
	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/internal/server"
	"github.com/yhinai/clippy/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sidecar server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()

		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if memDir, _ := cmd.Flags().GetString("memory-dir"); memDir != "" {
			cfg.MemoryDir = memDir
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		cfg.PersonaFile, _ = cmd.Flags().GetString("persona-file")
		cfg.HumanFile, _ = cmd.Flags().GetString("human-file")

		if err := config.EnsureDirs(cfg); err != nil {
			return err
		}

		logger := logging.New(cfg.LogLevel, os.Stdout)

		// Construction order: embedder, store, model client, agent, server.
		var (
			embed    memory.EmbedFunc
			chatFn   llm.ChatFunc
			visionFn llm.VisionFunc
		)
		if cfg.MockMode() {
			logger.Warn("GROK_API_KEY not set, running in mock mode")
			mock := &llm.Mock{}
			chatFn, visionFn = mock.Chat, mock.Vision
			embed = memory.NewMockEmbedFunc(64)
		} else {
			client := llm.NewClient(cfg.GrokAPIKey, cfg.GrokBaseURL, cfg.ChatModel, cfg.VisionModel, cfg.CallTimeout)
			chatFn, visionFn = client.Chat, client.Vision
			embed = memory.NewOpenAIEmbedFunc(client.OpenAI(), cfg.EmbedModel)
		}

		store, err := memory.NewChromemStore(cfg.MemoryDir, embed)
		if err != nil {
			return err
		}
		logger.Info("memory store opened", "dir", cfg.MemoryDir, "items", store.Count())

		persona, err := readBlockFile(cfg.PersonaFile)
		if err != nil {
			return err
		}
		human, err := readBlockFile(cfg.HumanFile)
		if err != nil {
			return err
		}

		ag := agent.New(agent.Config{
			Chat:     chatFn,
			Vision:   visionFn,
			Store:    store,
			Tools:    tools.DefaultRegistry(),
			Logger:   logger,
			Persona:  persona,
			Human:    human,
			MockMode: cfg.MockMode(),
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, store, ag, logger)
		return srv.Start(ctx)
	},
}

// readBlockFile loads a core memory block override; empty path means use the
// built-in default.
func readBlockFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	serveCmd.Flags().String("host", "127.0.0.1", "bind address")
	serveCmd.Flags().Int("port", 8000, "listen port")
	serveCmd.Flags().String("memory-dir", "", "archival memory directory")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	serveCmd.Flags().String("persona-file", "", "file overriding the persona block")
	serveCmd.Flags().String("human-file", "", "file overriding the human block")
	rootCmd.AddCommand(serveCmd)
}
