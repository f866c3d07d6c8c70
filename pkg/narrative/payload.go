package narrative

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodePayload decodes an event payload, as delivered to an EventHandler,
// into out. Numbers received as float64 are converted to the target type.
//
//	var e domain.EntityRenamedEvent
//	err := narrative.DecodePayload(payload, &e)
func DecodePayload(payload any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := dec.Decode(payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
