package crypt

// DefaultCapacity is the slot size used when none is configured.
const DefaultCapacity = 8192

// Processor holds the two independent buffers of an encrypted session.
type Processor struct {
	encoder *Buffer
	decoder *Buffer
}

// NewProcessor creates the per-direction buffers for secret.
func NewProcessor(algorithm string, secret []byte, capacity int) (*Processor, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	enc, dec, err := NewStreams(algorithm, secret)
	if err != nil {
		return nil, err
	}
	return &Processor{
		encoder: NewBuffer(enc, capacity),
		decoder: NewBuffer(dec, capacity),
	}, nil
}

// Encoder is the outbound buffer.
func (p *Processor) Encoder() *Buffer { return p.encoder }

// Decoder is the inbound buffer.
func (p *Processor) Decoder() *Buffer { return p.decoder }
