package codec

import (
	"encoding/json"
	"fmt"

	zc "github.com/TuSKan/zarrcore"
)

// jsonUnmarshal decodes a codec's configuration object, wrapping failures as
// ErrMalformedMetadata the way every other configuration parse in this
// package does.
func jsonUnmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: codec configuration: %v", zc.ErrMalformedMetadata, err)
	}
	return nil
}
