// Command mdchunk chunks Markdown documents for retrieval pipelines.
//
// Usage:
//
//	mdchunk chunk --file README.md
//	mdchunk fetch --url https://example.com/doc.md
//	mdchunk serve --addr :8080
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hsn0918/mdchunk/internal/config"
	"github.com/hsn0918/mdchunk/internal/fetch"
	"github.com/hsn0918/mdchunk/internal/logger"
	"github.com/hsn0918/mdchunk/internal/metrics"
	"github.com/hsn0918/mdchunk/internal/restapi"
	"github.com/hsn0918/mdchunk/pkg/chunking"
)

// CLI defines the command-line interface.
type CLI struct {
	Chunk ChunkCmd `cmd:"" help:"Chunk a Markdown file or stdin."`
	Fetch FetchCmd `cmd:"" help:"Fetch a remote Markdown document and chunk it."`
	Serve ServeCmd `cmd:"" help:"Run the chunking pipeline as an HTTP service."`
}

// ChunkCmd reads Markdown from a file (or stdin when --file is empty) and
// prints the chunking result as JSON.
type ChunkCmd struct {
	File    string `short:"f" help:"Path to a Markdown file. Reads stdin if omitted." type:"path"`
	Profile string `help:"Named chunking profile (default, technical-docs, chat-log)." default:"default"`
}

func (c *ChunkCmd) Run() error {
	profile, ok := config.Profile[c.Profile]
	if !ok {
		return fmt.Errorf("unknown profile %q", c.Profile)
	}

	text, err := readInput(c.File)
	if err != nil {
		return err
	}

	result, err := chunking.Chunk(text, profile.ToChunkConfig())
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}

	data, err := chunking.MarshalResult(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// FetchCmd retrieves a remote Markdown document before chunking it.
type FetchCmd struct {
	URL     string        `required:"" help:"URL of the Markdown document to fetch."`
	Profile string        `help:"Named chunking profile (default, technical-docs, chat-log)." default:"default"`
	Timeout time.Duration `help:"Request timeout." default:"30s"`
}

func (c *FetchCmd) Run() error {
	profile, ok := config.Profile[c.Profile]
	if !ok {
		return fmt.Errorf("unknown profile %q", c.Profile)
	}

	client := fetch.NewClient(c.Timeout)
	text, correlationID, err := client.Get(c.URL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", c.URL, err)
	}

	result, err := chunking.Chunk(text, profile.ToChunkConfig())
	if err != nil {
		return fmt.Errorf("chunk: %w (correlation_id=%s)", err, correlationID)
	}

	data, err := chunking.MarshalResult(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// ServeCmd runs the REST adapter under an fx composition root.
type ServeCmd struct {
	Addr string `help:"Listen address." default:":8080"`
}

func (c *ServeCmd) Run() error {
	app := fx.New(
		fx.Supply(c.Addr),
		fx.Provide(
			newLogger,
			metrics.New,
			restapi.NewServer,
		),
		fx.Invoke(startServer),
		fx.NopLogger,
	)
	app.Run()
	return nil
}

func newLogger() (*zap.Logger, error) {
	if err := logger.Init(); err != nil {
		return nil, err
	}
	return logger.GetLogger(), nil
}

func startServer(lc fx.Lifecycle, srv *restapi.Server, log *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("REST adapter stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
	})
}

func main() {
	requestID := uuid.NewString()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("mdchunk"),
		kong.Description("Markdown chunking for RAG pipelines"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mdchunk: %v (request_id=%s)\n", err, requestID)
		os.Exit(1)
	}
}
