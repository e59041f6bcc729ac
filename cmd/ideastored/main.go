// Idea store observability sidecar
// Opens the portal's data directory and exposes metrics, health, and pprof
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ideaforge/ideastore/internal/logger"
	"github.com/ideaforge/ideastore/internal/metrics"
	"github.com/ideaforge/ideastore/internal/server"
	"github.com/ideaforge/ideastore/pkg/comment"
	"github.com/ideaforge/ideastore/pkg/idea"
	"github.com/ideaforge/ideastore/pkg/meta"
	"github.com/ideaforge/ideastore/pkg/storage"
	"github.com/ideaforge/ideastore/pkg/vote"
)

var (
	dataDir  = flag.String("data", "data", "Data directory holding ideas/, comments/, and meta.json")
	votesDB  = flag.String("votes", "", "Path to the sqlite vote database (empty for in-memory votes)")
	obsPort  = flag.Int("obs-port", 9090, "Observability HTTP port")
	logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	pretty   = flag.Bool("pretty", false, "Pretty-print logs for development")
)

func main() {
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{
		Level:  *logLevel,
		Pretty: *pretty,
	})
	log := logger.GetGlobalLogger()
	log.LogServerStart(*obsPort, *dataDir)

	metaStore, err := meta.Open(*dataDir)
	if err != nil {
		log.Fatal("Failed to open metadata store").Err(err).Send()
	}

	ideaColl, err := storage.OpenCollection(idea.CollectionName, filepath.Join(*dataDir, "ideas"), idea.FilePrefix)
	if err != nil {
		log.Fatal("Failed to open idea collection").Err(err).Send()
	}
	commentColl, err := storage.OpenCollection(comment.CollectionName, filepath.Join(*dataDir, "comments"), comment.FilePrefix)
	if err != nil {
		log.Fatal("Failed to open comment collection").Err(err).Send()
	}

	ideas := idea.NewStore(ideaColl, metaStore)
	_ = comment.NewStore(commentColl)

	var ledger vote.Ledger
	if *votesDB != "" {
		ledger, err = vote.NewSQLiteLedger(*votesDB)
		if err != nil {
			log.Fatal("Failed to open vote database").Err(err).Send()
		}
	} else {
		ledger = vote.NewMemoryLedger()
		log.Warn("Using in-memory vote ledger").
			Msg("Voter identities will be forgotten on restart")
	}
	defer ledger.Close()

	votes := vote.NewService(ledger, ideas)

	// Bring the cached idea total and the mirrored vote counts up to
	// date before reporting anything.
	total, err := ideas.RefreshTotalCount()
	if err != nil {
		log.Fatal("Failed to refresh idea total").Err(err).Send()
	}
	if err := votes.Resync(context.Background()); err != nil {
		log.Fatal("Failed to resync vote counts").Err(err).Send()
	}
	log.Info("Store opened").
		Int("ideas", total).
		Str("data_dir", *dataDir).
		Send()

	stop := make(chan struct{})
	go publishStats(ideaColl, commentColl, ledger, stop)

	obs := server.NewObservabilityServer(*obsPort, log)
	go func() {
		if err := obs.Start(); err != nil {
			log.Fatal("Observability server failed").Err(err).Send()
		}
	}()
	log.LogServerReady(*obsPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.LogServerShutdown()
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := obs.Shutdown(ctx); err != nil {
		log.Error("Shutdown error").Err(err).Send()
	}
}

// publishStats refreshes the collection gauges until stop closes.
func publishStats(ideas, comments *storage.Collection, ledger vote.Ledger, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	update := func() {
		ideaCount, err := ideas.Count()
		if err != nil {
			return
		}
		commentCount, err := comments.Count()
		if err != nil {
			return
		}
		metrics.Default().UpdateCollectionStats(int64(ideaCount), int64(commentCount))

		if total, err := ledger.TotalVotes(context.Background()); err == nil {
			metrics.Default().UpdateVoteStats(int64(total))
		}
	}

	update()
	for {
		select {
		case <-ticker.C:
			update()
		case <-stop:
			return
		}
	}
}
