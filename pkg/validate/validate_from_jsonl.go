package validate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

// StreamResult — статистика валидации потока сообщений.
type StreamResult struct {
	ValidMessages   int
	InvalidMessages int
	AcceptedOrders  int
	DroppedOrders   int
}

func (r StreamResult) Summary() string {
	return fmt.Sprintf("%d valid / %d invalid messages, %d orders accepted / %d dropped",
		r.ValidMessages, r.InvalidMessages, r.AcceptedOrders, r.DroppedOrders)
}

// ValidateJSONLStream — читает JSONL из reader’а, нормализует каждую строку как сообщение шины,
// принятые заказы пишет в writer. Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.Validator, ir io.Reader, ow io.Writer) (StreamResult, error) {
	var res StreamResult

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		payload, err := DecodeOrders(ctx, validator, line)
		res.DroppedOrders += payload.Dropped
		if err != nil {
			// не возвращаем ошибку — просто пропускаем невалидную строку
			res.InvalidMessages++
			continue
		}
		if err := writeOrders(ow, payload); err != nil {
			return res, err
		}
		res.ValidMessages++
		res.AcceptedOrders += len(payload.Orders)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
