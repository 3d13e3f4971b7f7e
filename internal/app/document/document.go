// Package document produces contract PDFs, archiving them when object storage is available.
package document

import (
	"context"
	"fmt"

	"academy/internal/app/ds"
	"academy/internal/app/pdf"
	"academy/internal/app/view"

	"github.com/sirupsen/logrus"
)

const contentTypePDF = "application/pdf"

// Store is the subset of storage.MinIOClient used for the archive
type Store interface {
	FileExists(ctx context.Context, key string) (bool, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	DeleteFile(ctx context.Context, key string) error
}

type Service struct {
	renderer pdf.Renderer
	store    Store
}

// NewService builds the service. store may be nil.
func NewService(renderer pdf.Renderer, store Store) *Service {
	return &Service{renderer: renderer, store: store}
}

func ObjectKey(contractNumber string) string {
	return "contracts/" + contractNumber + ".pdf"
}

// ContractPDF renders the frozen contract text. The content never changes
// after signing, so an archived copy is returned as-is.
func (s *Service) ContractPDF(ctx context.Context, c *ds.Contract, student *ds.Student, packageName string) ([]byte, error) {
	key := ObjectKey(c.ContractNumber)

	if s.store != nil {
		exists, err := s.store.FileExists(ctx, key)
		if err != nil {
			logrus.Warnf("contract archive lookup %s: %v", key, err)
		} else if exists {
			data, err := s.store.DownloadFile(ctx, key)
			if err == nil {
				return data, nil
			}
			logrus.Warnf("contract archive download %s: %v", key, err)
		}
	}

	html, err := view.ContractHTML(view.ContractPage{
		ContractNumber: c.ContractNumber,
		StudentName:    student.FullName(),
		PackageName:    packageName,
		Content:        c.ContractContent,
		SignatureData:  c.SignatureData,
		SignedAt:       c.SignedAt,
	})
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render contract %s: %w", c.ContractNumber, err)
	}

	if s.store != nil {
		if err := s.store.UploadFile(ctx, key, data, contentTypePDF); err != nil {
			logrus.Warnf("contract archive upload %s: %v", key, err)
		}
	}
	return data, nil
}

// Forget removes archived copies of the given contracts. Errors are logged.
func (s *Service) Forget(ctx context.Context, contractNumbers []string) {
	if s.store == nil {
		return
	}
	for _, n := range contractNumbers {
		if err := s.store.DeleteFile(ctx, ObjectKey(n)); err != nil {
			logrus.Warnf("contract archive delete %s: %v", n, err)
		}
	}
}
