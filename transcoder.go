package hackernews

import (
	"github.com/goccy/go-json"
)

// Transcoder defines the contract for bidirectional conversion between a value of type T
// and the raw payload a Store holds for it. Users may implement custom transcoders
// (e.g. msgpack for a private mirror, or a decoder with stricter validation) to control
// exactly how payloads are interpreted.
type Transcoder[T any] interface {
	// Encode converts a value of type T into a payload suitable for storing under a path.
	// The client only reads; Encode exists for tools that mirror payloads into a RedisStore.
	Encode(T) ([]byte, error)

	// Decode reconstructs a value of type T from a payload returned by a Store.
	// It must reverse Encode for the same transcoder instance.
	Decode([]byte) (T, error)
}

// defaultTranscoder is the built-in transcoder used when the user does not provide a custom one.
// It performs straightforward JSON serialization, which is the format of the public store.
// Item values go through Item.UnmarshalJSON, so the variant classification happens here too.
type defaultTranscoder[T any] struct{}

// Encode method converts the provided value into its JSON representation.
// Any error produced during the serialization process is returned to the caller for handling.
func (defaultTranscoder[T]) Encode(src T) ([]byte, error) {
	return json.Marshal(src)
}

// Decode method reconstructs a value of the original type from its JSON representation.
// On failure the zero value of T is returned together with the decoding error.
func (defaultTranscoder[T]) Decode(src []byte) (T, error) {
	var entry T

	if err := json.Unmarshal(src, &entry); err != nil {
		var zero T
		return zero, err
	}

	return entry, nil
}
