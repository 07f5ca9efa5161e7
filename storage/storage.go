// storage/storage.go
package storage

import (
	"context"

	"github.com/rovshanmuradov/solana-dex-sdk/storage/models"
)

// Storage определяет интерфейс для работы с хранилищем
type Storage interface {
	// Сабмиты
	SaveSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, txHash string) (*models.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, txHash string, status string, errorKind string, errorMsg string) error

	// Котировки
	SaveQuote(ctx context.Context, quote *models.QuoteRecord) error

	// Миграции
	RunMigrations() error

	Close() error
}
