package upload

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/checksum"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/notes"
	"github.com/starford/noteshub/internal/seed"
)

type fixedUser struct{ u *models.User }

func (f fixedUser) Current() *models.User { return f.u }

func newService(t *testing.T, cfg Config, u *models.User) (*Service, *notes.Repository) {
	t.Helper()
	ds, err := seed.Default()
	require.NoError(t, err)
	repo := notes.New(ds.Notes)
	svc := NewService(repo, fixedUser{u}, cfg, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 23, 30, 0, 0, time.UTC) }
	return svc, repo
}

func validForm() Form {
	return Form{
		Title:       "Linear Algebra Cheatsheet",
		Subject:     "Mathematics",
		Course:      "Calculus",
		Description: "Vectors, matrices and eigenvalues.",
		Tags:        "math, linear algebra, ,matrices",
	}
}

func TestValidateFile(t *testing.T) {
	cases := []struct {
		name string
		size int64
		want models.FileType
		err  error
	}{
		{"notes.pdf", 100, models.FileTypePDF, nil},
		{"NOTES.DOCX", 100, models.FileTypeDOCX, nil},
		{"slides.pptx", 100, models.FileTypePPT, nil},
		{"readme.md", DefaultMaxBytes, models.FileTypeMD, nil},
		{"old.doc", 1, models.FileTypeDOC, nil},
		{"big.pdf", DefaultMaxBytes + 1, "", ErrFileTooLarge},
		{"image.png", 100, "", ErrUnsupportedType},
		{"noext", 100, "", ErrUnsupportedType},
		{"", 0, "", ErrFileRequired},
	}
	for _, tc := range cases {
		got, err := ValidateFile(tc.name, tc.size, 0)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, tc.name)
			assert.ErrorIs(t, err, apperr.ErrValidation, tc.name)
			continue
		}
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestUploadCreatesNote(t *testing.T) {
	svc, repo := newService(t, Config{}, &models.User{Name: "Demo User", Email: "a@b.c"})
	content := []byte("# Linear algebra\n")

	n, err := svc.Upload(context.Background(), validForm(), File{
		Name: "linalg.md", Size: int64(len(content)), Content: bytes.NewReader(content),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, repo.Len())
	assert.Greater(t, n.ID, int64(3))
	assert.Equal(t, models.FileTypeMD, n.FileType)
	assert.Equal(t, "Demo User", n.Author)
	assert.Equal(t, "2024-05-02", n.UploadDate)
	assert.Equal(t, []string{"math", "linear algebra", "matrices"}, n.Tags)
	assert.Equal(t, "0.00 MB", n.FileSize)
	assert.Equal(t, checksum.Sum(content), n.Checksum)
	assert.Zero(t, n.Likes)
	assert.NotNil(t, n.Comments)

	stored, err := repo.FindByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stored)
}

func TestUploadOversizedRejectedBeforeCreate(t *testing.T) {
	svc, repo := newService(t, Config{}, nil)
	_, err := svc.Upload(context.Background(), validForm(), File{Name: "huge.pdf", Size: 11 << 20})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 3, repo.Len())
}

func TestUploadDetectsUnderstatedSize(t *testing.T) {
	svc, repo := newService(t, Config{MaxBytes: 16}, nil)
	_, err := svc.Upload(context.Background(), validForm(), File{
		Name: "liar.txt", Size: 4, Content: strings.NewReader(strings.Repeat("x", 64)),
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 3, repo.Len())
}

func TestUploadRequiresFields(t *testing.T) {
	svc, repo := newService(t, Config{}, nil)
	form := validForm()
	form.Course = ""
	_, err := svc.Upload(context.Background(), form, File{Name: "a.pdf", Size: 1})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, MsgMissingFields, apperr.Message(err))

	_, err = svc.Upload(context.Background(), validForm(), File{})
	assert.ErrorIs(t, err, ErrFileRequired)
	assert.Equal(t, 3, repo.Len())
}

func TestUploadFileTypeOverride(t *testing.T) {
	svc, _ := newService(t, Config{}, nil)
	form := validForm()
	form.FileType = "txt"
	n, err := svc.Upload(context.Background(), form, File{Name: "a.md", Size: 1})
	require.NoError(t, err)
	assert.Equal(t, models.FileTypeTXT, n.FileType)
	assert.Equal(t, DefaultAuthor, n.Author)

	form.FileType = "EXE"
	_, err = svc.Upload(context.Background(), form, File{Name: "a.md", Size: 1})
	assert.ErrorIs(t, err, ErrUnknownFileType)
}

func TestUploadCancelledDuringLatency(t *testing.T) {
	svc, repo := newService(t, Config{UploadLatency: time.Hour}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Upload(ctx, validForm(), File{Name: "a.pdf", Size: 1})
	assert.True(t, IsCancelled(err))
	assert.Equal(t, 3, repo.Len())
}

func TestDownload(t *testing.T) {
	svc, repo := newService(t, Config{}, nil)
	n, err := svc.Download(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 533, n.Downloads)

	_, err = svc.Download(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	stored, _ := repo.FindByID(1)
	assert.Equal(t, 533, stored.Downloads)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1.50 MB", FormatSize(3<<19))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"../../etc/passwd.txt", "passwd.txt"},
		{"my notes.md", "my_notes.md"},
		{"Week 3 (final).pdf", "Week_3__final_.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "SanitizeFilename(%q)", tt.in)
	}
	assert.NotEmpty(t, SanitizeFilename("///"))
}

func TestCheckContent(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		head    []byte
		wantErr bool
	}{
		{"pdf", "a.pdf", []byte("%PDF-1.7\n"), false},
		{"text as pdf", "fake.pdf", []byte("hello"), true},
		{"markdown", "a.MD", []byte("# Title\n"), false},
		{"binary as txt", "a.txt", []byte{0x00, 0x01, 0x02, 0xff}, true},
		{"docx zip", "a.docx", []byte("PK\x03\x04rest"), false},
		{"docx text", "a.docx", []byte("plain"), true},
		{"doc unchecked", "a.doc", []byte("anything"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckContent(tt.file, tt.head)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				assert.Contains(t, apperr.Message(err), "content does not match")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUploadRejectsMismatchedContent(t *testing.T) {
	svc, repo := newService(t, Config{}, nil)
	_, err := svc.Upload(context.Background(), validForm(), File{
		Name: "fake.pdf", Size: 5, Content: strings.NewReader("hello"),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 3, repo.Len())
}

func TestUploadSanitisesFileName(t *testing.T) {
	svc, _ := newService(t, Config{}, nil)
	n, err := svc.Upload(context.Background(), validForm(), File{
		Name: "../lecture notes.txt", Size: 4, Content: strings.NewReader("text"),
	})
	require.NoError(t, err)
	assert.Equal(t, "lecture_notes.txt", n.FileName)
}
