package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile — прогоняет файл через ту же нормализацию, что и сообщения шины.
// JSON — одно сообщение на файл, JSONL — одно сообщение на строку.
// Принятые заказы пишутся в writer каноническим JSON по одному на строку.
func ValidateFile(ctx context.Context, validator ports.Validator, filePath string, format InputFormat, ow io.Writer) (string, error) {
	resSummary := ""

	// auto по расширению
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".jsonl":
			format = FormatJSONL
		default:
			// по умолчанию считаем JSON
			format = FormatJSON
		}
	}
	if format != FormatJSON && format != FormatJSONL {
		return resSummary, fmt.Errorf("unsupported format: %s", format)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return resSummary, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if format == FormatJSONL {
		result, err := ValidateJSONLStream(ctx, validator, file, ow)
		if err != nil {
			return resSummary, err
		}
		return result.Summary(), nil
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return resSummary, fmt.Errorf("read file: %w", err)
	}
	payload, err := DecodeOrders(ctx, validator, raw)
	if err != nil {
		res := StreamResult{InvalidMessages: 1, DroppedOrders: payload.Dropped}
		return res.Summary(), err
	}
	if err := writeOrders(ow, payload); err != nil {
		return resSummary, err
	}
	res := StreamResult{ValidMessages: 1, AcceptedOrders: len(payload.Orders), DroppedOrders: payload.Dropped}
	return res.Summary(), nil
}

func writeOrders(ow io.Writer, payload Payload) error {
	for i := range payload.Orders {
		canonical, err := json.Marshal(payload.Orders[i])
		if err != nil {
			return fmt.Errorf("marshal order: %w", err)
		}
		if _, err := ow.Write(canonical); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		if _, err := ow.Write([]byte("\n")); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}
	return nil
}
