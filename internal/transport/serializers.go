// Package transport converts client records to bytes and back.
package transport

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"

	"code.anagramas.org/golang/internal/utils"
)

const (
	SRZ_JSON = "json"
	SRZ_CBOR = "cbor"
)

// Serializer is an interface that provides methods to Marshal/Unmarshal messages.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONSerializer provides a Serializer that uses json Marshal/Unmarshal
type JSONSerializer struct{}

// Marshal wraps json.Marshal
func (self JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal wraps json.Unmarshal
func (self JSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

var _ Serializer = JSONSerializer{}

// CBORSerializer provides a Serializer that uses default cbor Marshal/Unmarshal
type CBORSerializer struct{}

// Marshal wraps cbor.Marshal
func (self CBORSerializer) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

// Unmarshal wraps cbor.Unmarshal
func (self CBORSerializer) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

var _ Serializer = CBORSerializer{}

// A SafeSerializer wraps a Serializer ensuring that marshaled/unmarshaled messages are validated.
type SafeSerializer struct {
	Serializer
}

// WrapInSafeSerializer returns a SafeSerializer wrapping s.
func WrapInSafeSerializer(s Serializer) SafeSerializer {
	if c, isSafeSerializer := s.(SafeSerializer); isSafeSerializer {
		return c
	}

	return SafeSerializer{Serializer: s}
}

// Marshal validates v if it has a Check method and then marshals it using the wrapped Serializer.
func (self SafeSerializer) Marshal(v any) ([]byte, error) {
	if c, validate := v.(Checker); validate {
		if err := c.Check(); nil != err {
			return nil, utils.WrapError(err, 0, ValidationError, "invalid message")
		}
	}

	srzmsg, err := self.Serializer.Marshal(v)
	if nil != err {
		return nil, utils.WrapError(err, 0, SerializationError, "failed marshalling message")
	}

	return srzmsg, nil
}

// Unmarshal unmarshals data in v using the wrapped Serializer and then validates v if it has a
// Check method.
func (self SafeSerializer) Unmarshal(data []byte, v any) error {
	err := self.Serializer.Unmarshal(data, v)
	if nil != err {
		return utils.WrapError(err, 0, SerializationError, "failed unmarshaling message")
	}

	if c, checkable := v.(Checker); checkable {
		if err = c.Check(); nil != err {
			return utils.WrapError(err, 0, ValidationError, "invalid message")
		}
	}

	return nil
}

var _ Serializer = SafeSerializer{}

// Checker is an interface that provides a method Check to validate messages.
type Checker interface {
	Check() error
}

var srzRegistry *utils.Registry[string, Serializer]

// RegisterSerializer adds s to the Serializer registry. It errors if name is already in use.
func RegisterSerializer(name string, s Serializer) error {
	return wrapError(
		utils.RegistrySet(srzRegistry, name, s),
		"failed registering Serializer %s",
		name,
	)
}

// GetSerializer loads the Serializer registered with name.
func GetSerializer(name string) (Serializer, error) {
	s, found := utils.RegistryGet(srzRegistry, name)
	if !found {
		return nil, utils.NewError(0, UnknownSerializer, "unsupported Serializer %q", name)
	}
	return s, nil
}

// ListSerializers returns the sorted names of the registered Serializers.
func ListSerializers() []string {
	return utils.RegistryNames(srzRegistry)
}

func init() {
	srzRegistry = utils.NewRegistry[string, Serializer]()
	for name, s := range map[string]Serializer{SRZ_JSON: JSONSerializer{}, SRZ_CBOR: CBORSerializer{}} {
		if err := RegisterSerializer(name, s); nil != err {
			panic(err)
		}
	}
}
