// Package uploader coordinates the concurrent upload of a listing's images to
// object storage. All uploads in a batch are launched together and the batch
// resolves only when every task has settled (join semantics); result URLs keep
// the original selection order regardless of completion order.
package uploader

import (
	"bytes"
	"context"
	"fmt"

	"house_marketplace_backend/internal/adapters/storage"
	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/platform/apperr"
	"house_marketplace_backend/platform/events"
	"house_marketplace_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Coordinator uploads image batches for listings.
type Coordinator struct {
	store  storage.ObjectStore
	bucket string
	bus    events.Bus
	log    *logger.Logger
}

// NewCoordinator creates an upload coordinator writing to the given bucket.
func NewCoordinator(store storage.ObjectStore, bucket string, bus events.Bus, log *logger.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		bucket: bucket,
		bus:    bus,
		log:    log,
	}
}

// UploadAll uploads every image concurrently and returns the download URLs in
// the original input order. If any upload fails the whole batch fails; tasks
// already in flight are not cancelled, so objects uploaded by succeeding
// siblings are left behind in storage (accepted cost, no compensating delete).
func (c *Coordinator) UploadAll(ctx context.Context, ownerID uuid.UUID, images []domain.ImageFile) ([]string, error) {
	urls := make([]string, len(images))
	if len(images) == 0 {
		return urls, nil
	}

	tasks := make([]*Task, len(images))

	// Plain errgroup.Group, not WithContext: a failing task must not cancel
	// its siblings.
	var g errgroup.Group
	for i, image := range images {
		i, image := i, image
		key := objectKey(ownerID, image.Name)
		task := newTask(i, key, int64(len(image.Data)))
		tasks[i] = task

		g.Go(func() error {
			task.run()
			c.publish(ctx, ownerID, task)

			url, err := c.store.Upload(ctx, c.bucket, key, image.ContentType,
				bytes.NewReader(image.Data), int64(len(image.Data)),
				func(transferred, _ int64) {
					task.progress(transferred)
					c.publish(ctx, ownerID, task)
				})
			if err != nil {
				task.fail(err)
				c.publish(ctx, ownerID, task)
				c.log.StorageError("upload", key, err)
				return err
			}

			task.succeed(url)
			c.publish(ctx, ownerID, task)
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "images not uploaded", err)
	}

	return urls, nil
}

// objectKey derives a globally unique storage key from the owner, the original
// filename, and a fresh random token, so identically named files in one batch
// never collide.
func objectKey(ownerID uuid.UUID, fileName string) string {
	return fmt.Sprintf("images/%s-%s-%s", ownerID, fileName, uuid.New())
}

func (c *Coordinator) publish(ctx context.Context, ownerID uuid.UUID, task *Task) {
	if c.bus == nil {
		return
	}
	snap := task.Snapshot()
	c.bus.Publish(ctx, ProgressEvent{
		BaseEvent:   events.NewBaseEvent(),
		OwnerID:     ownerID.String(),
		Key:         snap.Key,
		State:       snap.State,
		Transferred: snap.Transferred,
		Total:       snap.Total,
	})
}
