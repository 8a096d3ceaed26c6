package session

import (
	"errors"

	"github.com/MayaTheShy/Starworld/pkg/protocol"
)

var ErrBadDenial = errors.New("malformed connection denial")

// Denial reason codes the domain may send. Unknown codes still carry a
// readable reason string.
const (
	DeniedUnknown       uint8 = 0
	DeniedProtocol      uint8 = 1
	DeniedLoginError    uint8 = 2
	DeniedNotAuthorized uint8 = 3
	DeniedTooManyUsers  uint8 = 4
	DeniedTimedOut      uint8 = 5
)

// Denial is a parsed connection-denied reply.
type Denial struct {
	Code   uint8
	Reason string
}

func ParseDenial(payload []byte) (Denial, error) {
	r := protocol.NewReader(payload)
	var d Denial
	d.Code = r.ReadUint8()
	d.Reason = r.ReadWideString()
	if r.Err() != nil {
		return Denial{}, ErrBadDenial
	}
	return d, nil
}

// EncodeDenial is the server-side encoding, used by tests.
func EncodeDenial(d Denial) []byte {
	var w protocol.Writer
	w.WriteUint8(d.Code)
	w.WriteWideString(d.Reason)
	return w.Bytes()
}
