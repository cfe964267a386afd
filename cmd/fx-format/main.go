// fx-format runs the workspace formatters selected by the --language
// option, in check mode when --test is set.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brandonbloom/fx/internal/argblob"
	"github.com/brandonbloom/fx/internal/formatter"
	"github.com/brandonbloom/fx/internal/logging"
	"go.uber.org/zap"
)

func main() {
	logger, err := logging.NewStderr(logging.Options{Level: logging.Level("warn")})
	if err != nil {
		log.Fatal(err)
	}

	if len(os.Args) != 2 {
		logger.Fatal("expected exactly one argument blob", zap.Int("args", len(os.Args)-1))
	}
	blob, err := argblob.Decode([]byte(os.Args[1]))
	if err != nil {
		logger.Fatal("decode arguments", zap.Error(err))
	}
	languages, err := blob.StringSet("language")
	if err != nil {
		logger.Fatal("read language", zap.Error(err))
	}
	test, err := blob.Bool("test")
	if err != nil {
		logger.Fatal("read test", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code, err := formatter.New(formatter.NewExecRunner(), os.Stdout, logger).Run(ctx, languages, test)
	stop()
	if err != nil {
		logger.Fatal("format", zap.Error(err))
	}
	_ = logger.Sync()
	os.Exit(code)
}
