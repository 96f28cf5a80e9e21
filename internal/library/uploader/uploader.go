// Package uploader drives multi-file uploads against the document
// service, aggregating per-file completion into one progress signal.
package uploader

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dalemusser/docuvault/internal/library"
)

// File is one local file queued for upload.
type File struct {
	Name        string // original filename
	Size        int64  // size in bytes, used for pre-flight limit checks
	ContentType string // MIME type, used for pre-flight limit checks
	Content     io.Reader
}

// Batch groups files with the metadata shared across the whole upload.
//
// Name is the user-supplied display name. It applies only when the batch
// holds exactly one file; in a multi-file batch every document keeps its
// own original filename and Name is ignored.
type Batch struct {
	Files        []File
	Name         string
	Description  string
	Category     string
	FolderPath   string // "" targets the root
	IsPublic     bool
	UploadedBy   string
	UploaderName string
}

// ProgressFunc receives the overall progress percentage. Values are
// non-decreasing and end at 100 on success.
type ProgressFunc func(percent int)

// Limits holds the caller-side file size ceilings checked before an
// upload is attempted.
type Limits struct {
	MaxImageBytes    int64
	MaxDocumentBytes int64
}

// DefaultLimits returns the standard ceilings: 5MB for images, 50MB for
// everything else.
func DefaultLimits() Limits {
	return Limits{
		MaxImageBytes:    5 << 20,
		MaxDocumentBytes: 50 << 20,
	}
}

// Check validates one file against the limits. A zero ceiling disables
// that check.
func (l Limits) Check(f File) error {
	if strings.HasPrefix(f.ContentType, "image/") {
		if l.MaxImageBytes > 0 && f.Size > l.MaxImageBytes {
			return &library.ValidationError{Field: f.Name, Reason: "image exceeds size limit"}
		}
		return nil
	}
	if l.MaxDocumentBytes > 0 && f.Size > l.MaxDocumentBytes {
		return &library.ValidationError{Field: f.Name, Reason: "file exceeds size limit"}
	}
	return nil
}

// Uploader uploads batches through a Gateway. One batch at a time; a
// second Upload while one is running returns ErrBusy.
type Uploader struct {
	gw          library.Gateway
	concurrency int
	limits      Limits

	mu   sync.Mutex
	busy bool
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithConcurrency bounds how many files may upload in parallel. The
// default of 1 keeps uploads strictly sequential, which is also what
// makes the progress signal deterministic.
func WithConcurrency(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

// WithLimits replaces the default pre-flight size limits.
func WithLimits(l Limits) Option {
	return func(u *Uploader) { u.limits = l }
}

func New(gw library.Gateway, opts ...Option) *Uploader {
	u := &Uploader{
		gw:          gw,
		concurrency: 1,
		limits:      DefaultLimits(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload sends every file in the batch to the gateway and returns the
// created documents in upload order.
//
// Progress is reported in three phases: a 10 floor once the batch
// starts, a proportional climb to 90 as files complete, and 100 when the
// whole batch has landed. The emitted sequence never decreases.
//
// On failure the batch stops: files after the failing one are not
// attempted and documents already created are NOT rolled back. Those
// documents are returned alongside a *library.UploadError naming the
// file that failed.
func (u *Uploader) Upload(ctx context.Context, batch Batch, progress ProgressFunc) ([]library.Document, error) {
	if len(batch.Files) == 0 {
		return nil, &library.ValidationError{Field: "files", Reason: "no files selected"}
	}
	for _, f := range batch.Files {
		if err := u.limits.Check(f); err != nil {
			return nil, err
		}
	}

	u.mu.Lock()
	if u.busy {
		u.mu.Unlock()
		return nil, library.ErrBusy
	}
	u.busy = true
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.busy = false
		u.mu.Unlock()
	}()

	emit := newProgressEmitter(progress)
	emit(10)

	var (
		docs []library.Document
		err  error
	)
	if u.concurrency <= 1 {
		docs, err = u.uploadSequential(ctx, batch, emit)
	} else {
		docs, err = u.uploadBounded(ctx, batch, emit)
	}
	if err != nil {
		return docs, err
	}

	emit(100)
	return docs, nil
}

// newProgressEmitter wraps progress so the reported value never moves
// backwards and a nil callback is a no-op.
func newProgressEmitter(progress ProgressFunc) ProgressFunc {
	if progress == nil {
		return func(int) {}
	}
	last := -1
	return func(percent int) {
		if percent < last {
			return
		}
		last = percent
		progress(percent)
	}
}

// documentName applies the batch naming rule for the file at index i.
func documentName(batch Batch, i int) string {
	if len(batch.Files) == 1 && strings.TrimSpace(batch.Name) != "" {
		return strings.TrimSpace(batch.Name)
	}
	return batch.Files[i].Name
}

func (u *Uploader) input(batch Batch, i int) library.UploadInput {
	f := batch.Files[i]
	return library.UploadInput{
		FileName:     f.Name,
		Content:      f.Content,
		Name:         documentName(batch, i),
		Description:  batch.Description,
		Category:     batch.Category,
		FolderPath:   batch.FolderPath,
		IsPublic:     batch.IsPublic,
		UploadedBy:   batch.UploadedBy,
		UploaderName: batch.UploaderName,
	}
}

func (u *Uploader) uploadSequential(ctx context.Context, batch Batch, emit ProgressFunc) ([]library.Document, error) {
	total := len(batch.Files)
	var docs []library.Document
	for i := range batch.Files {
		doc, err := u.gw.Upload(ctx, u.input(batch, i))
		if err != nil {
			return docs, &library.UploadError{FileName: batch.Files[i].Name, Err: err}
		}
		docs = append(docs, doc)
		emit(10 + (80*(i+1))/total)
	}
	return docs, nil
}

// uploadBounded uploads with at most u.concurrency files in flight. Once
// a failure is observed no further files are started; files already in
// flight run to completion and their documents are kept.
func (u *Uploader) uploadBounded(ctx context.Context, batch Batch, emit ProgressFunc) ([]library.Document, error) {
	total := len(batch.Files)
	sem := make(chan struct{}, u.concurrency)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		results   = make([]*library.Document, total)
		completed int
		firstErr  *library.UploadError
	)

	for i := range batch.Files {
		mu.Lock()
		stop := firstErr != nil
		mu.Unlock()
		if stop {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			doc, err := u.gw.Upload(ctx, u.input(batch, i))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = &library.UploadError{FileName: batch.Files[i].Name, Err: err}
				}
				return
			}
			results[i] = &doc
			completed++
			emit(10 + (80*completed)/total)
		}(i)
	}
	wg.Wait()

	var docs []library.Document
	for _, r := range results {
		if r != nil {
			docs = append(docs, *r)
		}
	}
	if firstErr != nil {
		return docs, firstErr
	}
	return docs, nil
}
