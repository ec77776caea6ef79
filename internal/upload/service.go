package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/checksum"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/notes"
)

// DefaultAuthor names the uploader when no session is available.
const DefaultAuthor = "Demo User"

// Identity reports the current session user, nil for a guest.
type Identity interface {
	Current() *models.User
}

// File is an uploaded file. Content is hashed and discarded.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Config tunes a Service.
type Config struct {
	MaxBytes        int64
	UploadLatency   time.Duration
	DownloadLatency time.Duration
}

// Service runs uploads and downloads against the note repository.
type Service struct {
	repo   *notes.Repository
	who    Identity
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates an upload service.
func NewService(repo *notes.Repository, who Identity, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, who: who, cfg: cfg, now: time.Now, logger: logger}
}

// MaxBytes returns the configured size limit.
func (s *Service) MaxBytes() int64 { return s.cfg.MaxBytes }

// Check validates a candidate file against the configured limit.
func (s *Service) Check(name string, size int64) (models.FileType, error) {
	return ValidateFile(name, size, s.cfg.MaxBytes)
}

// Upload sanitises the file name, validates the file, the form and the
// file content, waits out the simulated transfer, and appends a new note.
// Nothing is created when validation fails or ctx is cancelled during the
// wait.
func (s *Service) Upload(ctx context.Context, form Form, file File) (models.Note, error) {
	file.Name = SanitizeFilename(file.Name)
	ft, err := s.Check(file.Name, file.Size)
	if err != nil {
		return models.Note{}, err
	}
	if err := form.Validate(); err != nil {
		return models.Note{}, err
	}
	if form.FileType != "" {
		ft = models.FileType(strings.ToUpper(form.FileType))
	}

	var sum string
	size := file.Size
	if file.Content != nil {
		head, content, err := peek(file.Content)
		if err != nil {
			return models.Note{}, fmt.Errorf("upload: read file: %w", err)
		}
		if err := CheckContent(file.Name, head); err != nil {
			return models.Note{}, err
		}
		var n int64
		sum, n, err = checksum.Stream(content, s.cfg.MaxBytes)
		if err != nil {
			return models.Note{}, fmt.Errorf("upload: read file: %w", err)
		}
		if n > s.cfg.MaxBytes {
			return models.Note{}, ErrFileTooLarge
		}
		size = n
	}

	if err := wait(ctx, s.cfg.UploadLatency); err != nil {
		return models.Note{}, fmt.Errorf("upload: %w", err)
	}

	author := DefaultAuthor
	if u := s.who.Current(); u != nil && u.Name != "" {
		author = u.Name
	}

	note := models.Note{
		ID:          s.repo.NextID(),
		Title:       form.Title,
		Subject:     form.Subject,
		Course:      form.Course,
		Author:      author,
		Rating:      0,
		UploadDate:  s.now().UTC().Format(models.DateLayout),
		FileType:    ft,
		Description: form.Description,
		Comments:    []models.Comment{},
		Tags:        ParseTags(form.Tags),
		FileName:    file.Name,
		FileSize:    FormatSize(size),
		Checksum:    sum,
	}
	if err := s.repo.Append(note); err != nil {
		return models.Note{}, fmt.Errorf("upload: %w", err)
	}
	s.logger.Info("note uploaded",
		slog.Int64("id", note.ID),
		slog.String("title", note.Title),
		slog.String("file", file.Name),
		slog.Int64("size", size))
	return note, nil
}

// Download counts a download of note id and waits out the simulated
// transfer. The count is taken before the wait, so cancellation does not
// undo it.
func (s *Service) Download(ctx context.Context, id int64) (models.Note, error) {
	n, ok := s.repo.IncrementDownload(id)
	if !ok {
		return models.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	if err := wait(ctx, s.cfg.DownloadLatency); err != nil {
		return n, fmt.Errorf("download: %w", err)
	}
	return n, nil
}

// FormatSize renders a byte count the way the upload form shows it.
func FormatSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}

// IsCancelled reports whether err came from an abandoned wait.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
