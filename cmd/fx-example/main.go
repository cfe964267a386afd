// fx-example prints the argument blob fx hands it and the environment it
// was started with.
package main

import (
	"log"
	"os"

	"github.com/brandonbloom/fx/internal/argblob"
	"github.com/brandonbloom/fx/internal/logging"
	"github.com/brandonbloom/fx/internal/reporter"
	"go.uber.org/zap"
)

func main() {
	logger, err := logging.NewStderr(logging.Options{Level: logging.Level("warn")})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) != 2 {
		logger.Fatal("expected exactly one argument blob", zap.Int("args", len(os.Args)-1))
	}
	blob, err := argblob.Decode([]byte(os.Args[1]))
	if err != nil {
		logger.Fatal("decode arguments", zap.Error(err))
	}
	if err := reporter.Report(os.Stdout, blob, os.Environ()); err != nil {
		logger.Fatal("report", zap.Error(err))
	}
}
