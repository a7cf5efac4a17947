// service содержит бизнес-логику news-analyzer: цикл опроса и слой запросов.
package service

import (
	"context"
	"errors"

	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные параметры запроса.
	// Транспорт: 400 Bad Request.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Notifier доставляет алерт. Ошибки доставки реализация логирует сама.
type Notifier interface {
	Notify(ctx context.Context, alert models.Alert)
}

// Printer печатает новые негативные статьи цикла вместе с их метками алертов.
type Printer interface {
	PrintCycle(items []models.Alert)
}

// Service — слой запросов поверх хранилища.
type Service struct {
	storage storage.Storage
	cfg     config.Config
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.Alert) {}

type nopPrinter struct{}

func (nopPrinter) PrintCycle([]models.Alert) {}
