package files

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"

	"github.com/google/uuid"

	"filebox/internal/blob"
	"filebox/internal/queue"
)

const DefaultPageSize = 20

// BlobStore is the content store the hierarchy writes originals to.
type BlobStore interface {
	NewLocator() string
	Write(locator string, data []byte) error
	Read(locator string) ([]byte, error)
	Remove(locator string) error
}

// Enqueuer submits derivative jobs after an image upload commits.
type Enqueuer interface {
	Enqueue(ctx context.Context, j queue.Job) error
}

// Service owns the metadata invariants of the hierarchy: typing, parent
// linkage, ownership and visibility.
type Service struct {
	repo  Repository
	blobs BlobStore
	jobs  Enqueuer
}

func NewService(repo Repository, blobs BlobStore, jobs Enqueuer) *Service {
	return &Service{repo: repo, blobs: blobs, jobs: jobs}
}

type CreateInput struct {
	Name     string
	Kind     string
	ParentID string
	IsPublic bool
	Data     string // base64 content, required for non-folder kinds
}

// Create validates and persists a new node. Content is written to the blob
// store before metadata commits, so metadata never references bytes that
// were not durably stored. Image uploads enqueue exactly one derivative job
// after the metadata commit.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*File, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !ValidKind(in.Kind) {
		return nil, ErrMissingKind
	}
	if in.Kind != KindFolder && in.Data == "" {
		return nil, ErrMissingData
	}

	parentID := normalizeParent(in.ParentID)
	if parentID != RootParentID {
		parent, err := s.repo.GetByIDAndOwner(ctx, parentID, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotFolder
		}
	}

	f := &File{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     in.Name,
		Kind:     in.Kind,
		ParentID: parentID,
		IsPublic: in.IsPublic,
	}

	if in.Kind != KindFolder {
		content, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return nil, ErrInvalidData
		}
		locator := s.blobs.NewLocator()
		if err := s.blobs.Write(locator, content); err != nil {
			return nil, fmt.Errorf("failed to store content: %w", err)
		}
		f.Locator = locator
	}

	if err := s.repo.Create(ctx, f); err != nil {
		if f.Locator != "" {
			_ = s.blobs.Remove(f.Locator)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	if f.Kind == KindImage {
		job := queue.Job{FileID: f.ID, UserID: userID}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			// The upload itself succeeded; the image just won't get
			// derivatives until an operator re-enqueues it.
			log.Printf("failed to enqueue derivative job for file %s: %v", f.ID, err)
		}
	}

	return f, nil
}

// Get returns a node owned by the principal.
func (s *Service) Get(ctx context.Context, userID int64, id string) (*File, error) {
	return s.repo.GetByIDAndOwner(ctx, id, userID)
}

// List pages through the principal's children of parentID in insertion
// order. Re-querying a page is deterministic absent concurrent writes;
// concurrent creates into the same folder may interleave arbitrarily.
func (s *Service) List(ctx context.Context, userID int64, parentID string, page, pageSize int) ([]*File, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return s.repo.ListByParent(ctx, userID, normalizeParent(parentID), page*pageSize, pageSize)
}

// SetVisibility flips the public flag on a node owned by the principal.
func (s *Service) SetVisibility(ctx context.Context, userID int64, id string, public bool) (*File, error) {
	f, err := s.repo.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPublic(ctx, id, public); err != nil {
		return nil, fmt.Errorf("failed to update visibility: %w", err)
	}
	f.IsPublic = public
	return f, nil
}

// ReadContent returns a node's raw bytes and content type. userID may be
// AnonymousUser. A requested width in {100,250,500} selects the derivative
// rendition. Unreadable nodes come back as ErrNotFound no matter why, so
// existence of other principals' files never leaks.
func (s *Service) ReadContent(ctx context.Context, userID int64, id string, width int) ([]byte, string, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if f.IsFolder() {
		return nil, "", ErrFolderNoContent
	}
	if !CanRead(userID, f) {
		return nil, "", ErrNotFound
	}

	locator := f.Locator
	switch width {
	case 100, 250, 500:
		locator = blob.DerivativeLocator(locator, width)
	}

	data, err := s.blobs.Read(locator)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

func normalizeParent(parentID string) string {
	if parentID == "" {
		return RootParentID
	}
	return parentID
}
