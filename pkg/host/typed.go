package host

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Typed adapts a handler taking a concrete params struct. Params arrive as
// decoded JSON (maps and float64) and are converted with mapstructure.
func Typed[T any](fn func(ctx context.Context, params T) error) Handler {
	return func(ctx context.Context, raw any) error {
		var params T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &params,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return err
		}
		if err := dec.Decode(raw); err != nil {
			return fmt.Errorf("invalid params: %w", err)
		}
		return fn(ctx, params)
	}
}
