package worker

import (
	"context"
)

// Worker - фоновый процесс сервиса (сейчас единственный - геокодирование).
type Worker interface {
	// Start запускает цикл обработки и блокируется до остановки
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру о завершении
	Stop() error

	// Name возвращает имя воркера для логов
	Name() string
}
