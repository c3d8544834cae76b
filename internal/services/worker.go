package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrseeker/resume-matcher/internal/repositories"
)

const indexQueueSize = 100

type Worker interface {
	IndexQueue
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	uploadRepo   repositories.UploadRepository
	indexer      TalentIndexer
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	uploadRepo repositories.UploadRepository,
	indexer TalentIndexer,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &worker{
		uploadRepo:   uploadRepo,
		indexer:      indexer,
		jobQueue:     make(chan uuid.UUID, indexQueueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollUnindexed(ctx)

	log.Println("✅ Index worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// EnqueueJob implements IndexQueue. It never blocks the caller; when the
// queue is full the upload is left for the poller.
func (w *worker) EnqueueJob(uploadID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue upload %s\n", uploadID)
	case w.jobQueue <- uploadID:
		log.Printf("📥 Upload %s enqueued for indexing\n", uploadID)
	default:
		log.Printf("⚠️  Index queue full, upload %s left for the poller\n", uploadID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case uploadID := <-w.jobQueue:
			if err := w.indexer.IndexUpload(ctx, uploadID); err != nil {
				log.Printf("❌ Worker #%d failed to index upload %s: %v\n", workerID, uploadID, err)
			}
		}
	}
}

func (w *worker) pollUnindexed(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Unindexed uploads poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.enqueueUnindexed(ctx)
		}
	}
}

func (w *worker) enqueueUnindexed(ctx context.Context) {
	pending, err := w.uploadRepo.FindUnindexed(ctx, 10)
	if err != nil {
		log.Printf("⚠️  Failed to fetch unindexed uploads: %v\n", err)
		return
	}

	if len(pending) > 0 {
		log.Printf("📋 Found %d unindexed uploads\n", len(pending))
	}

	for _, upload := range pending {
		w.EnqueueJob(upload.ID)
	}
}
