package domain

// AddressPrefix is prepended to a blendshape name to form a message address.
const AddressPrefix = "/"

// Message is a single addressed value. One Message is built per batch entry
// and discarded once it has been encoded.
type Message struct {
	Address string
	Value   float32
}

// NewMessage builds the message for a blendshape entry.
func NewMessage(name string, value float32) Message {
	return Message{
		Address: AddressPrefix + name,
		Value:   value,
	}
}

// Name returns the address without its leading prefix.
func (m Message) Name() string {
	if len(m.Address) > 0 && m.Address[:1] == AddressPrefix {
		return m.Address[1:]
	}
	return m.Address
}
