package railz

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes a context value to msgpack bytes. Contexts are
// serializable by convention; Encode is the standard interchange form for
// moving one across a process boundary or parking it in a queue between
// pipeline runs. Values the codec cannot represent (funcs, channels, live
// handles) fail here rather than silently dropping out.
func Encode[T any](value T) ([]byte, error) {
	return msgpack.Marshal(value)
}

// Decode deserializes msgpack bytes produced by Encode back into a context
// value of type T.
func Decode[T any](data []byte) (T, error) {
	var value T
	err := msgpack.Unmarshal(data, &value)
	return value, err
}

// MarshalBinary implements encoding.BinaryMarshaler using the same msgpack
// form as Encode.
func (c Context) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(map[string]any(c))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, replacing c's
// contents with the decoded data.
func (c *Context) UnmarshalBinary(data []byte) error {
	var decoded map[string]any
	if err := msgpack.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Context(decoded)
	return nil
}
