package service

import (
	"context"

	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/models"
)

// Parser описывает источник «сырых» записей (RSS/Atom и т.п.).
//
// Требования к реализации:
// 1) Link нормализован (без #fragment, UTM и прочих трекеров) и непустой.
// 2) Title/Summary/Published копируются как есть.
// 3) Реализация уважает ctx (отмена/таймауты).
//
// ParseMany отправляет по одному ParseResult на каждый источник и затем закрывает канал.
// Порядок результатов не гарантируется: оркестратор восстанавливает порядок конфига.
type Parser interface {
	ParseMany(ctx context.Context, sources []config.Source) <-chan ParseResult
}

// ParseResult — результат разбора одной ленты.
// Если Err != nil, Entries пуст.
type ParseResult struct {
	Source  string
	Entries []models.Entry
	Err     error
}
